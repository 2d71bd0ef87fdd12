package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAccountNotFound is returned when no portal account exists for an id.
var ErrAccountNotFound = errors.New("portal account not found")

// AuthService reads and writes portal accounts.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new AuthService instance
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		db: db,
	}
}

// GetAccount retrieves a portal account by id.
func (as *AuthService) GetAccount(ctx context.Context, accountID string) (*PortalAccount, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID is empty")
	}

	var account PortalAccount
	result := as.db.WithContext(ctx).Where("account_id = ?", accountID).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Debug("portal account not found", "account_id", accountID)
			return nil, ErrAccountNotFound
		}
		slog.Error("failed to fetch portal account from database",
			"account_id", accountID,
			"error", result.Error,
		)
		return nil, fmt.Errorf("failed to fetch portal account: %w", result.Error)
	}

	return &account, nil
}

// UpsertAccount creates the account or replaces its profile.
//
// Example usage:
//
//	profile := json.RawMessage(`{"department": "Compliance", "role": "inspector"}`)
//	err := authService.UpsertAccount(ctx, "inspector-014", profile)
func (as *AuthService) UpsertAccount(ctx context.Context, accountID string, profile json.RawMessage) error {
	if accountID == "" {
		return fmt.Errorf("account ID is empty")
	}
	if len(profile) == 0 {
		profile = json.RawMessage(`{}`)
	}

	// Validate JSON format
	var jsonData any
	if err := json.Unmarshal(profile, &jsonData); err != nil {
		return fmt.Errorf("invalid JSON in account profile: %w", err)
	}

	result := as.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"profile", "updated_at"}),
	}).Create(&PortalAccount{
		AccountID: accountID,
		Profile:   profile,
	})
	if result.Error != nil {
		slog.Error("failed to upsert portal account",
			"account_id", accountID,
			"error", result.Error,
		)
		return fmt.Errorf("failed to upsert portal account: %w", result.Error)
	}

	slog.Debug("portal account upserted", "account_id", accountID)
	return nil
}
