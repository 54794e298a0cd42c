package repository

import (
	"context"
	"errors"
	"fmt"

	"cse_motors/internal/model"

	"github.com/jackc/pgx/v5"
)

// AccountRepository defines operations for account data
type AccountRepository interface {
	Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*model.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByID(ctx context.Context, id int) (*model.Account, error)
	UpdateInfo(ctx context.Context, id int, firstName, lastName, email string) (bool, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) (bool, error)
}

type accountRepository struct {
	db DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `account_id, account_firstname, account_lastname, account_email, account_password, account_type`

func scanAccount(row pgx.Row) (*model.Account, error) {
	a := &model.Account{}
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.Type); err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new Client account and returns the stored row
func (r *accountRepository) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*model.Account, error) {
	sql := `INSERT INTO account (account_firstname, account_lastname, account_email, account_password, account_type)
            VALUES ($1, $2, $3, $4, 'Client') RETURNING ` + accountColumns
	a, err := scanAccount(r.db.QueryRow(ctx, sql, firstName, lastName, email, passwordHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Nothing inserted
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

// EmailExists reports whether any account is registered with the email
func (r *accountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql := `SELECT EXISTS (SELECT 1 FROM account WHERE account_email = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, sql, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing email: %w", err)
	}
	return exists, nil
}

// FindByEmail retrieves an account by email, nil when not found
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	sql := `SELECT ` + accountColumns + ` FROM account WHERE account_email = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	return a, nil
}

// FindByID retrieves an account by id, nil when not found
func (r *accountRepository) FindByID(ctx context.Context, id int) (*model.Account, error) {
	sql := `SELECT ` + accountColumns + ` FROM account WHERE account_id = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}
	return a, nil
}

// UpdateInfo changes names and email; false when no row matched
func (r *accountRepository) UpdateInfo(ctx context.Context, id int, firstName, lastName, email string) (bool, error) {
	sql := `UPDATE account SET account_firstname = $1, account_lastname = $2, account_email = $3 WHERE account_id = $4`
	tag, err := r.db.Exec(ctx, sql, firstName, lastName, email, id)
	if err != nil {
		return false, fmt.Errorf("failed to update account: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdatePassword stores a new password hash; false when no row matched
func (r *accountRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) (bool, error) {
	sql := `UPDATE account SET account_password = $1 WHERE account_id = $2`
	tag, err := r.db.Exec(ctx, sql, passwordHash, id)
	if err != nil {
		return false, fmt.Errorf("failed to update password: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
