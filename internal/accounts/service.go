package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookkeep-dev/bookkeep/internal/model"
	"github.com/bookkeep-dev/bookkeep/internal/store"
)

// Service manages the chart of accounts.
type Service struct {
	store *store.Store
	log   zerolog.Logger
}

// NewService creates an account registry backed by the store.
func NewService(st *store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// CreateParams holds parameters for creating an account.
type CreateParams struct {
	Code string
	Name string
	Type model.AccountType
}

const accountColumns = "id, code, name, type, balance_cents, active, created_at, updated_at"

// Create adds an account to the chart. Fails with store.ErrConflict if
// the code is already taken.
func (s *Service) Create(ctx context.Context, params CreateParams) (*model.Account, error) {
	if params.Code == "" {
		return nil, fmt.Errorf("account code is required")
	}
	if params.Name == "" {
		return nil, fmt.Errorf("account name is required")
	}
	if !params.Type.Valid() {
		return nil, fmt.Errorf("unknown account type %q", params.Type)
	}

	acct := &model.Account{
		ID:        uuid.New(),
		Code:      params.Code,
		Name:      params.Name,
		Type:      params.Type,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	acct.UpdatedAt = acct.CreatedAt

	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		return insertAccount(tx, acct)
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, fmt.Errorf("account code %q: %w", params.Code, store.ErrConflict)
		}
		return nil, err
	}

	s.log.Info().Str("code", acct.Code).Str("type", string(acct.Type)).Msg("account created")
	return acct, nil
}

func insertAccount(tx *sql.Tx, a *model.Account) error {
	_, err := tx.Exec(`
		INSERT INTO accounts (id, code, name, type, balance_cents, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, 1, ?, ?)`,
		a.ID.String(), a.Code, a.Name, string(a.Type),
		a.CreatedAt.Format(time.RFC3339), a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting account %s: %w", a.Code, err)
	}
	return nil
}

// GetByCode returns the account with the given code, or store.ErrNotFound.
func (s *Service) GetByCode(ctx context.Context, code string) (*model.Account, error) {
	row := s.store.DB().QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE code = ?", code)
	acct, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account code %q: %w", code, store.ErrNotFound)
	}
	return acct, err
}

// GetByID returns the account with the given ID, or store.ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	row := s.store.DB().QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id.String())
	acct, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, store.ErrNotFound)
	}
	return acct, err
}

// List returns all accounts ordered by code.
func (s *Service) List(ctx context.Context) ([]model.Account, error) {
	return s.queryAccounts(ctx,
		"SELECT "+accountColumns+" FROM accounts ORDER BY code")
}

// ByCategory returns active accounts whose type belongs to the given
// category, ordered by code.
func (s *Service) ByCategory(ctx context.Context, cat model.Category) ([]model.Account, error) {
	all, err := s.queryAccounts(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE active = 1 ORDER BY code")
	if err != nil {
		return nil, err
	}
	var result []model.Account
	for _, a := range all {
		if a.Category() == cat {
			result = append(result, a)
		}
	}
	return result, nil
}

// Deactivate soft-deletes an account by code.
func (s *Service) Deactivate(ctx context.Context, code string) error {
	return s.store.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			"UPDATE accounts SET active = 0, updated_at = ? WHERE code = ?",
			time.Now().UTC().Format(time.RFC3339), code)
		if err != nil {
			return fmt.Errorf("deactivating account %s: %w", code, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("account code %q: %w", code, store.ErrNotFound)
		}
		return nil
	})
}

// SeedDefaults creates any missing default accounts, keyed by code.
// Safe to run repeatedly; returns the number of accounts created.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		for _, entry := range DefaultChart() {
			var exists int
			err := tx.QueryRow("SELECT COUNT(1) FROM accounts WHERE code = ?", entry.Code).Scan(&exists)
			if err != nil {
				return fmt.Errorf("checking account %s: %w", entry.Code, err)
			}
			if exists > 0 {
				continue
			}
			now := time.Now().UTC()
			acct := &model.Account{
				ID:        uuid.New(),
				Code:      entry.Code,
				Name:      entry.Name,
				Type:      entry.Type,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := insertAccount(tx, acct); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.log.Info().Int("created", created).Msg("seeded default chart of accounts")
	}
	return created, nil
}

// AdjustBalance applies a signed cached-balance delta to an account
// inside an existing transaction. This is the only mutator of the
// cached balance; the increment happens in the store so concurrent
// postings against one account cannot lose updates.
func AdjustBalance(tx *sql.Tx, accountID uuid.UUID, deltaCents int64) error {
	res, err := tx.Exec(`
		UPDATE accounts
		SET balance_cents = balance_cents + ?, updated_at = ?
		WHERE id = ?`,
		deltaCents, time.Now().UTC().Format(time.RFC3339), accountID.String())
	if err != nil {
		return fmt.Errorf("adjusting balance of account %s: %w", accountID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", accountID, store.ErrNotFound)
	}
	return nil
}

func (s *Service) queryAccounts(ctx context.Context, query string, args ...any) ([]model.Account, error) {
	rows, err := s.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accts []model.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accts = append(accts, *acct)
	}
	return accts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*model.Account, error) {
	var (
		a            model.Account
		id           string
		balanceCents int64
		createdAt    string
		updatedAt    string
	)
	err := row.Scan(&id, &a.Code, &a.Name, &a.Type, &balanceCents, &a.Active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	a.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing account ID %q: %w", id, err)
	}
	a.Balance = model.FromCents(balanceCents)
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at %q: %w", updatedAt, err)
	}
	return &a, nil
}
