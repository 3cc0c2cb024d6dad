package domain

import "strings"

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Plan         string
	IsYearly     bool
	IsSubscriber bool
}

func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Registration is the account-creation payload sent to the backend.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Plan      string
	IsYearly  bool
}

// Session mirrors the backend's authoritative session. At most one
// exists per process.
type Session struct {
	User        User
	BearerToken string
}

// SessionState is the lifecycle of the process-wide session context.
type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateValidating    SessionState = "validating"
	StateAuthenticated SessionState = "authenticated"
	StateAnonymous     SessionState = "anonymous"
)
