package model

import "time"

// User is an auditor account. Auth is a thin collaborator around the audit
// pipeline; the password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
