// Command admintoken prints a signed admin JWT for the warm endpoint.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nikhilbhutani/ttsthrowdown/internal/auth"
	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

func main() {
	subject := flag.String("sub", "ops", "token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Auth.AdminJWTSecret == "" {
		slog.Error("ADMIN_JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := auth.IssueAdminToken(cfg.Auth.AdminJWTSecret, *subject, *ttl)
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
