// Command admintoken issues a signed admin access token. It is invoked by an
// operator out of band; the token is never exposed over the network.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/apartment-bureau/landing-service/internal/config"
	"github.com/apartment-bureau/landing-service/internal/gate"
)

func main() {
	expiresDays := flag.Int("expires-days", 0, "days until the token expires (default: ADMIN_TOKEN_TTL_DAYS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ttl := cfg.Admin.TokenTTL()
	if *expiresDays > 0 {
		ttl = time.Duration(*expiresDays) * 24 * time.Hour
	}

	if cfg.Admin.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_JWT_SECRET is not configured.")
		fmt.Fprintln(os.Stderr, "Add it to your .env file: ADMIN_JWT_SECRET=<your-secret-key>")
		os.Exit(1)
	}

	tokens := gate.NewTokenManager(cfg.Admin.JWTSecret)
	token, expiresAt, err := tokens.Issue(ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	prefix := strings.TrimSuffix(cfg.Admin.PathPrefix, "/")
	line := strings.Repeat("=", 60)

	fmt.Println(line)
	fmt.Println("Admin access token issued")
	fmt.Println(line)
	fmt.Printf("\nValid until: %s UTC\n", expiresAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Printf("\nAdmin console URL:\n\n%s%s/%s/\n\n", cfg.App.PublicBaseURL, prefix, token)
	fmt.Println(line)
	fmt.Println("\nKeep this token in a safe place and do not share it.")
}
