package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Status tracks the admin-approval lifecycle of an account. Only approved
// users can log in; pending users wait for an admin decision.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type User struct {
	Id           string
	Email        string
	Username     string
	DisplayName  string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
}
