package seed

import (
	"context"
	"fmt"

	"sound-byte/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountSeed describes one account ensured on every start.
type AccountSeed struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Authorities []string
}

// DefaultAccounts returns the administrator and the two regular accounts.
func DefaultAccounts(adminPassword, userPassword string) []AccountSeed {
	return []AccountSeed{
		{FirstName: "admin", LastName: "admin", Email: "admin@admin.com", Password: adminPassword, Authorities: []string{domain.AuthorityAdmin}},
		{FirstName: "firstName", LastName: "lastName", Email: "default@default.ru", Password: userPassword, Authorities: []string{domain.AuthorityUser}},
		{FirstName: "firstName2", LastName: "lastName2", Email: "default2@default.ru", Password: userPassword, Authorities: []string{domain.AuthorityUser}},
	}
}

// Bootstrapper upserts the authority catalogue and the seed accounts.
// It runs regardless of whether the exercise graph is already seeded.
type Bootstrapper struct {
	authorities domain.AuthorityRepository
	accounts    domain.AccountRepository
	tx          domain.TransactionManager
	seeds       []AccountSeed
	hashCost    int
	log         *zap.Logger
}

func NewBootstrapper(authorities domain.AuthorityRepository, accounts domain.AccountRepository, tx domain.TransactionManager, seeds []AccountSeed, log *zap.Logger) *Bootstrapper {
	return &Bootstrapper{
		authorities: authorities,
		accounts:    accounts,
		tx:          tx,
		seeds:       seeds,
		hashCost:    bcrypt.DefaultCost,
		log:         log,
	}
}

// WithHashCost overrides the bcrypt cost.
func (b *Bootstrapper) WithHashCost(cost int) *Bootstrapper {
	b.hashCost = cost
	return b
}

func (b *Bootstrapper) Bootstrap(ctx context.Context) error {
	return b.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, name := range []string{domain.AuthorityAdmin, domain.AuthorityUser} {
			if err := b.authorities.Upsert(ctx, &domain.Authority{Name: name}); err != nil {
				return fmt.Errorf("upsert authority %s: %w", name, err)
			}
		}
		for _, s := range b.seeds {
			if err := b.ensureAccount(ctx, s); err != nil {
				return err
			}
		}
		b.log.Info("Bootstrap accounts ensured", zap.Int("accounts", len(b.seeds)))
		return nil
	})
}

func (b *Bootstrapper) ensureAccount(ctx context.Context, s AccountSeed) error {
	existing, err := b.accounts.FindByEmail(ctx, s.Email)
	if err != nil {
		return fmt.Errorf("look up account %s: %w", s.Email, err)
	}

	account := &domain.Account{
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		Active:      true,
		Authorities: append([]string(nil), s.Authorities...),
	}
	// keep a stored hash that still matches so restarts do not rotate it
	if existing != nil && bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(s.Password)) == nil {
		account.ID = existing.ID
		account.PasswordHash = existing.PasswordHash
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), b.hashCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", s.Email, err)
		}
		account.PasswordHash = string(hash)
		if existing != nil {
			account.ID = existing.ID
		}
	}

	if err := account.Validate(); err != nil {
		return err
	}
	if err := b.accounts.Upsert(ctx, account); err != nil {
		return fmt.Errorf("upsert account %s: %w", s.Email, err)
	}
	return nil
}
