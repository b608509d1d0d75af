// Package vote records blind A/B votes and tallies them into the leaderboard.
package vote

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nikhilbhutani/ttsthrowdown/internal/catalog"
	"github.com/nikhilbhutani/ttsthrowdown/internal/models"
)

var (
	ErrMissingFields   = errors.New("missing fields")
	ErrUnknownPrompt   = errors.New("unknown prompt")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrInvalidMatchup  = errors.New("invalid matchup")
)

// DB is the subset of *pgxpool.Pool the service needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WinCounter is notified of every recorded vote.
type WinCounter interface {
	Vote(winner string)
}

type Service struct {
	db      DB
	catalog *catalog.Catalog
	counter WinCounter
}

func NewService(db DB, cat *catalog.Catalog, counter WinCounter) *Service {
	return &Service{db: db, catalog: cat, counter: counter}
}

// Validate checks a submission against the catalogue without touching the database.
func (s *Service) Validate(in models.VoteInput) error {
	if in.PromptID == "" || in.Winner == "" || in.Loser == "" {
		return ErrMissingFields
	}
	if _, ok := s.catalog.Prompt(in.PromptID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPrompt, in.PromptID)
	}
	for _, id := range []string{in.Winner, in.Loser} {
		if _, ok := s.catalog.Provider(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownProvider, id)
		}
	}
	if in.Winner == in.Loser {
		return ErrInvalidMatchup
	}
	return nil
}

func (s *Service) Record(ctx context.Context, in models.VoteInput) (*models.Vote, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	v := &models.Vote{
		ID:             uuid.New(),
		PromptID:       in.PromptID,
		WinnerProvider: in.Winner,
		LoserProvider:  in.Loser,
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO votes (id, prompt_id, winner_provider, loser_provider)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		v.ID, v.PromptID, v.WinnerProvider, v.LoserProvider,
	).Scan(&v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert vote: %w", err)
	}

	if s.counter != nil {
		s.counter.Vote(v.WinnerProvider)
	}
	return v, nil
}

func (s *Service) Leaderboard(ctx context.Context) (*models.Leaderboard, error) {
	rows, err := s.db.Query(ctx,
		`SELECT winner_provider, COUNT(*) FROM votes GROUP BY winner_provider`)
	if err != nil {
		return nil, fmt.Errorf("query wins: %w", err)
	}

	wins := map[string]int64{}
	var total int64
	for rows.Next() {
		var provider string
		var n int64
		if err := rows.Scan(&provider, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan wins: %w", err)
		}
		wins[provider] = n
		total += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wins: %w", err)
	}

	return &models.Leaderboard{
		Items:      rank(s.catalog.EnabledProviders(), wins),
		TotalVotes: total,
	}, nil
}

// rank lists the enabled providers by wins, highest first. Ties keep
// catalogue order.
func rank(providers []catalog.Provider, wins map[string]int64) []models.LeaderboardItem {
	items := make([]models.LeaderboardItem, 0, len(providers))
	for _, p := range providers {
		items = append(items, models.LeaderboardItem{ID: p.ID, Name: p.Name, Wins: wins[p.ID]})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Wins > items[j].Wins })
	return items
}
