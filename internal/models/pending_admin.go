package models

import "time"

// PendingAdmin is a registration awaiting superadmin approval for admin access.
type PendingAdmin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // already hashed, carried over verbatim on promotion
	CreatedAt    time.Time `json:"createdAt"`
}

// PendingAdminFromUser builds a pending request carrying the user's identity and hash.
func PendingAdminFromUser(u *User) *PendingAdmin {
	return &PendingAdmin{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}

// ToAdmin builds the admin account this request is promoted into.
func (p *PendingAdmin) ToAdmin() *User {
	return &User{
		Username:        p.Username,
		Email:           p.Email,
		PasswordHash:    p.PasswordHash,
		Role:            RoleAdmin,
		IsEmailVerified: p.Email != "",
	}
}
