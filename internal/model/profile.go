package model

import (
	"encoding/json"
	"time"
)

// Profile is a named set of derivation settings owned by a user.
// Passphrases are never stored.
type Profile struct {
	ID        int64
	UserID    int64
	Name      string
	Settings  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRequest creates or replaces a profile.
type ProfileRequest struct {
	Name     string          `json:"name"`
	Settings json.RawMessage `json:"settings"`
}

// ProfileResponse is the API view of a profile.
type ProfileResponse struct {
	Name      string          `json:"name"`
	Settings  json.RawMessage `json:"settings"`
	UpdatedAt time.Time       `json:"updated_at"`
}
