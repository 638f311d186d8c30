package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"sound-byte/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{"ID", "FIRST_NAME", "LAST_NAME", "EMAIL", "PASSWORD_HASH", "ACTIVE", "CREATED_AT", "UPDATED_AT"}

func TestAuthorityDatabaseAdapter_Upsert(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAuthorityDatabaseAdapter(db)

	mock.ExpectExec(`MERGE INTO authorities a`).WithArgs(domain.AuthorityAdmin).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Upsert(context.Background(), &domain.Authority{Name: domain.AuthorityAdmin}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountDatabaseAdapter_UpsertInsertsNewAccount(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAccountDatabaseAdapter(db)
	account := &domain.Account{
		FirstName: "admin", LastName: "admin", Email: "admin@admin.com",
		PasswordHash: "hash", Active: true, Authorities: []string{domain.AuthorityAdmin},
	}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE email = ?`)).WithArgs("admin@admin.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO accounts`)).
		WithArgs(sqlmock.AnyArg(), "admin", "admin", "admin@admin.com", "hash", int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM account_authorities WHERE account_id = ?`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO account_authorities (account_id, authority_name) VALUES (?, ?)`)).
		WithArgs(sqlmock.AnyArg(), domain.AuthorityAdmin).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), account))
	assert.Len(t, account.ID, 26)
	assert.False(t, account.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountDatabaseAdapter_UpsertUpdatesExistingAccount(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAccountDatabaseAdapter(db)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE email = ?`)).WithArgs("default@default.ru").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow("01HZX", "firstName", "lastName", "default@default.ru", "old", 1, created, created))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM account_authorities`)).WithArgs("01HZX").
		WillReturnRows(sqlmock.NewRows([]string{"ACCOUNT_ID", "AUTHORITY_NAME"}).AddRow("01HZX", domain.AuthorityUser))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET`)).
		WithArgs("firstName", "lastName", "new", int64(1), sqlmock.AnyArg(), "01HZX").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM account_authorities`)).WithArgs("01HZX").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO account_authorities`)).WithArgs("01HZX", domain.AuthorityUser).
		WillReturnResult(sqlmock.NewResult(0, 1))

	account := &domain.Account{
		FirstName: "firstName", LastName: "lastName", Email: "default@default.ru",
		PasswordHash: "new", Active: true, Authorities: []string{domain.AuthorityUser},
	}
	require.NoError(t, repo.Upsert(context.Background(), account))
	assert.Equal(t, "01HZX", account.ID)
	assert.True(t, created.Equal(account.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountDatabaseAdapter_FindByEmail(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAccountDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE email = ?`)).WithArgs("admin@admin.com").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow("01HZY", "admin", "admin", "admin@admin.com", "hash", 0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM account_authorities`)).WithArgs("01HZY").
		WillReturnRows(sqlmock.NewRows([]string{"ACCOUNT_ID", "AUTHORITY_NAME"}).AddRow("01HZY", domain.AuthorityAdmin))

	acc, err := repo.FindByEmail(context.Background(), "admin@admin.com")

	require.NoError(t, err)
	assert.False(t, acc.Active)
	assert.Equal(t, []string{domain.AuthorityAdmin}, acc.Authorities)
	assert.NoError(t, mock.ExpectationsWereMet())
}
