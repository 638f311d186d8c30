package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Authority names known to the system.
const (
	AuthorityAdmin = "ROLE_ADMIN"
	AuthorityUser  = "ROLE_USER"
)

type Authority struct {
	Name string
}

// Account is a login identity. PasswordHash never holds a plain password.
type Account struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Active       bool
	Authorities  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Account) Validate() error {
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return fmt.Errorf("account: invalid email %q: %w", a.Email, err)
	}
	if a.PasswordHash == "" {
		return fmt.Errorf("account %s: password hash is required", a.Email)
	}
	if len(a.Authorities) == 0 {
		return fmt.Errorf("account %s: at least one authority is required", a.Email)
	}
	for _, name := range a.Authorities {
		if !strings.HasPrefix(name, "ROLE_") {
			return fmt.Errorf("account %s: malformed authority %q", a.Email, name)
		}
	}
	return nil
}
