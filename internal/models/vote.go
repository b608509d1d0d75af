package models

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID             uuid.UUID `json:"id" db:"id"`
	PromptID       string    `json:"promptId" db:"prompt_id"`
	WinnerProvider string    `json:"winner" db:"winner_provider"`
	LoserProvider  string    `json:"loser" db:"loser_provider"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// VoteInput is the body of a vote submission.
type VoteInput struct {
	PromptID string `json:"promptId"`
	Winner   string `json:"winner"`
	Loser    string `json:"loser"`
}

type LeaderboardItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Wins int64  `json:"wins"`
}

type Leaderboard struct {
	Items      []LeaderboardItem `json:"items"`
	TotalVotes int64             `json:"totalVotes"`
}
