package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/GoSim-25-26J-441/go-fund-backend/config"
)

var ErrNoCredentials = errors.New("firebase service account credentials are not configured")

// NewTokenVerifier returns the Admin SDK client that checks the ID tokens sent by
// project owners and governors. The governor role and display name come from
// the token's custom claims, so no user lookup is made per request.
//
// The service account file is checked up front so a bad path fails at startup
// instead of on the first authenticated request.
func NewTokenVerifier(ctx context.Context, cfg config.FirebaseConfig) (*fbauth.Client, error) {
	if cfg.CredentialsPath == "" {
		return nil, ErrNoCredentials
	}
	if _, err := os.Stat(cfg.CredentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials %s: %w", cfg.CredentialsPath, err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("create firebase app: %w", err)
	}
	verifier, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("create token verifier: %w", err)
	}
	return verifier, nil
}
