package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sound-byte/internal/domain"
	"sound-byte/internal/repository/models"
	"sound-byte/internal/util"

	"github.com/jmoiron/sqlx"
)

// AuthorityDatabaseAdapter implements domain.AuthorityRepository.
type AuthorityDatabaseAdapter struct {
	db DBTX
}

func NewAuthorityDatabaseAdapter(db *sqlx.DB) domain.AuthorityRepository {
	return &AuthorityDatabaseAdapter{db: db}
}

func (a *AuthorityDatabaseAdapter) Upsert(ctx context.Context, authority *domain.Authority) error {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`MERGE INTO authorities a
		USING (SELECT ? AS name FROM dual) s ON (a.name = s.name)
		WHEN NOT MATCHED THEN INSERT (name) VALUES (s.name)`)
	if _, err := exec.ExecContext(ctx, query, authority.Name); err != nil {
		return fmt.Errorf("failed to upsert authority %s: %w", authority.Name, err)
	}
	return nil
}

// AccountDatabaseAdapter implements domain.AccountRepository. The account
// row is matched by email and its authority links are replaced wholesale.
type AccountDatabaseAdapter struct {
	db DBTX
}

func NewAccountDatabaseAdapter(db *sqlx.DB) domain.AccountRepository {
	return &AccountDatabaseAdapter{db: db}
}

func (a *AccountDatabaseAdapter) Upsert(ctx context.Context, account *domain.Account) error {
	exec := GetExecutor(ctx, a.db)
	existing, err := a.FindByEmail(ctx, account.Email)
	if err != nil {
		return err
	}

	now := time.Now()
	m := fromDomainAccount(account)
	m.UpdatedAt = now
	if existing != nil {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		_, err = exec.ExecContext(ctx, exec.Rebind(`UPDATE accounts SET first_name = ?, last_name = ?, password_hash = ?, active = ?, updated_at = ?
			WHERE id = ?`), m.FirstName, m.LastName, m.PasswordHash, m.Active, m.UpdatedAt, m.ID)
	} else {
		if m.ID == "" {
			m.ID = util.NewULID()
		}
		m.CreatedAt = now
		_, err = exec.ExecContext(ctx, exec.Rebind(`INSERT INTO accounts (id, first_name, last_name, email, password_hash, active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`), m.ID, m.FirstName, m.LastName, m.Email, m.PasswordHash, m.Active, m.CreatedAt, m.UpdatedAt)
	}
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", account.Email, err)
	}

	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM account_authorities WHERE account_id = ?`), m.ID); err != nil {
		return fmt.Errorf("failed to clear authorities of %s: %w", account.Email, err)
	}
	link := exec.Rebind(`INSERT INTO account_authorities (account_id, authority_name) VALUES (?, ?)`)
	for _, name := range account.Authorities {
		if _, err := exec.ExecContext(ctx, link, m.ID, name); err != nil {
			return fmt.Errorf("failed to grant %s to %s: %w", name, account.Email, err)
		}
	}

	account.ID = m.ID
	account.CreatedAt = m.CreatedAt
	account.UpdatedAt = m.UpdatedAt
	return nil
}

func (a *AccountDatabaseAdapter) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	exec := GetExecutor(ctx, a.db)
	var m models.Account
	err := exec.GetContext(ctx, &m, exec.Rebind(`SELECT id, first_name, last_name, email, password_hash, active, created_at, updated_at
		FROM accounts WHERE email = ?`), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account %s: %w", email, err)
	}

	var links []models.AccountAuthority
	err = exec.SelectContext(ctx, &links, exec.Rebind(`SELECT account_id, authority_name FROM account_authorities
		WHERE account_id = ? ORDER BY authority_name`), m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list authorities of %s: %w", email, err)
	}
	return toDomainAccount(&m, links), nil
}

func fromDomainAccount(a *domain.Account) *models.Account {
	m := &models.Account{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.Active {
		m.Active = 1
	}
	return m
}

func toDomainAccount(m *models.Account, links []models.AccountAuthority) *domain.Account {
	authorities := make([]string, len(links))
	for i, l := range links {
		authorities[i] = l.AuthorityName
	}
	return &domain.Account{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Active:       m.Active != 0,
		Authorities:  authorities,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
