package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/durgapur-services/marketplace-backend/config"
	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns the app
// together with its Auth client
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, *auth.Client, error) {
	if cfg.CredentialsPath == "" {
		return nil, nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return app, authClient, nil
}

// Accounts manages Firebase user accounts.
type Accounts struct {
	client *auth.Client
}

func NewAccounts(client *auth.Client) *Accounts {
	return &Accounts{client: client}
}

// CreateAccount creates an email/password account and returns its UID.
func (a *Accounts) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}

	record, err := a.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", domain.ErrEmailExists
		}
		return "", fmt.Errorf("failed to create account: %w", err)
	}
	return record.UID, nil
}

func (a *Accounts) DeleteAccount(ctx context.Context, uid string) error {
	if err := a.client.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// RevokeRefreshTokens signs uid out of every device.
func (a *Accounts) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := a.client.RevokeRefreshTokens(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}
