package models

import (
	"time"
)

// ScoreEntry is one quiz result in a user's score history.
type ScoreEntry struct {
	QuizID string `json:"quizId"`
	Title  string `json:"title"`
	Score  int    `json:"score"`
}

type User struct {
	ID              string
	Username        string
	Email           string // empty for accounts registered without an email
	PasswordHash    string
	Role            Role
	OTPCode         *string
	OTPExpiresAt    *time.Time
	IsEmailVerified bool
	Scores          []ScoreEntry // append-only, oldest first
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SetOTP attaches a code and its expiry. Both fields are always written together.
func (u *User) SetOTP(code string, expiresAt time.Time) {
	u.OTPCode = &code
	u.OTPExpiresAt = &expiresAt
}

// ClearOTP removes the pending code and its expiry.
func (u *User) ClearOTP() {
	u.OTPCode = nil
	u.OTPExpiresAt = nil
}

// HasOTP reports whether a code is currently attached.
func (u *User) HasOTP() bool {
	return u.OTPCode != nil && u.OTPExpiresAt != nil
}
