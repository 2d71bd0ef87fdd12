package auth

import (
	"encoding/json"
	"fmt"
	"time"
)

// PortalAccount is a LACRA staff account allowed to register records.
// The profile holds free-form attributes such as department and role.
type PortalAccount struct {
	AccountID string          `gorm:"type:varchar(100);column:account_id;primaryKey;not null" json:"accountId"`
	Profile   json.RawMessage `gorm:"type:jsonb;column:profile;serializer:json;not null" json:"profile"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName specifies the database table name for PortalAccount
func (a *PortalAccount) TableName() string {
	return "portal_accounts"
}

// AuthContext is injected into a request by the auth middleware once its
// bearer token has been verified.
type AuthContext struct {
	*PortalAccount
	ExpiresAt time.Time
}

// ProfileMap returns the account profile as a map.
// If no profile exists, it returns an empty map.
func (ac *AuthContext) ProfileMap() (map[string]any, error) {
	profile := make(map[string]any)
	if ac == nil || ac.PortalAccount == nil || len(ac.PortalAccount.Profile) == 0 {
		return profile, nil
	}

	if err := json.Unmarshal(ac.PortalAccount.Profile, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account profile: %w", err)
	}
	return profile, nil
}
