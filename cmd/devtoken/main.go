// cmd/devtoken/main.go
//
// devtoken mints a bearer token for a user id, for exercising the API locally
// with AUTH_MODE=jwt. It reads JWT_SECRET, JWT_ISSUER and JWT_TTL from the
// environment (or .env) the same way the API does; flags override them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"chads-social/internal/config"
	"chads-social/internal/identity"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	var (
		userID int64
		secret = cfg.Auth.JWTSecret
		issuer = cfg.Auth.JWTIssuer
		ttl    = cfg.Auth.TokenTTL
	)

	flagSet := pflag.NewFlagSet("devtoken", pflag.ContinueOnError)
	flagSet.Int64VarP(&userID, "user", "u", 0, "user id to put in the token subject (required)")
	flagSet.StringVar(&secret, "secret", secret, "HMAC secret (default: $JWT_SECRET)")
	flagSet.StringVar(&issuer, "issuer", issuer, "token issuer (default: $JWT_ISSUER)")
	flagSet.DurationVar(&ttl, "ttl", ttl, "token lifetime")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if userID <= 0 {
		return fmt.Errorf("--user must be a positive id")
	}
	if secret == "" {
		return fmt.Errorf("no secret: set JWT_SECRET or pass --secret")
	}

	token, err := identity.IssueToken(secret, issuer, userID, ttl, time.Now())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
