package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hungrymonkey/finder/internal/infrastructure/auth"
	"github.com/hungrymonkey/finder/pkg/config"
)

// devtoken mints an HS256 bearer token accepted by the mock API. The token is
// printed, or written to -out for use as FINDER_AUTH_TOKEN_FILE.
func main() {
	var userID, email, out string
	var ttl time.Duration
	flag.StringVar(&userID, "user", "", "subject of the token (random when empty)")
	flag.StringVar(&email, "email", "dev@example.com", "email claim")
	flag.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	flag.StringVar(&out, "out", "", "write the token to this file instead of stdout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.MockAPI.JWTSecret == "" {
		log.Fatalf("MOCKAPI_JWT_SECRET is not set")
	}

	if userID == "" {
		userID = uuid.NewString()
	}

	token, err := auth.GenerateToken([]byte(cfg.MockAPI.JWTSecret), userID, email, ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	if out == "" {
		fmt.Println(token)
		return
	}
	if err := os.WriteFile(out, []byte(token+"\n"), 0o600); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}
	log.Printf("Token for %s written to %s (expires in %s)", userID, out, ttl)
}
