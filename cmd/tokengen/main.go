// Command tokengen issues a bearer token for a caller of the commission service.
//
//	tokengen -subject checkout -role service
//	tokengen -config config.yaml -subject ops -role admin -ttl 1h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mmynk/commissions/internal/auth"
	"github.com/mmynk/commissions/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	subject := flag.String("subject", "", "caller identity (required)")
	role := flag.String("role", string(auth.RoleService), "service or admin")
	ttl := flag.Duration("ttl", 0, "token lifetime (default: auth.token_duration)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	duration := cfg.Auth.TokenDuration
	if *ttl > 0 {
		duration = *ttl
	}

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, duration).Generate(*subject, auth.Role(*role))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Now().Add(duration).UTC().Format(time.RFC3339))
}
