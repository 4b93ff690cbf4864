package model

import "time"

// User is a read-only mirror of the identity service's account record.
// The engine only ever looks users up by id.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// HelperProfile is the directory entry for a user who volunteers as a
// helper. The engine reads the availability flag and toggles it; everything
// else belongs to the directory service.
type HelperProfile struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Headline  string    `json:"headline"`
	Available bool      `json:"available"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// SetAvailabilityRequest is the payload for a helper toggling their flag.
type SetAvailabilityRequest struct {
	Available bool `json:"available"`
}
