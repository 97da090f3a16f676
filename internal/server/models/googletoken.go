package models

import "time"

// GoogleToken is the OAuth token pair that lets the server reach a user's
// Google Drive.
type GoogleToken struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	UpdatedAt    time.Time
}
