package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookkeep-dev/bookkeep/internal/model"
	"github.com/bookkeep-dev/bookkeep/internal/store"
)

const txnColumns = `id, reference, type, date, description, active,
	payment_settlement, created_by, created_at, updated_at`

// Get returns a transaction with all of its lines (active and
// inactive, so the audit trail is visible), or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	row := s.store.DB().QueryRowContext(ctx,
		"SELECT "+txnColumns+" FROM transactions WHERE id = ?", id.String())
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if txn.Lines, err = s.loadLines(ctx, txn.ID); err != nil {
		return nil, err
	}
	return txn, nil
}

// GetByReference returns a transaction by reference number.
func (s *Service) GetByReference(ctx context.Context, ref string) (*model.Transaction, error) {
	row := s.store.DB().QueryRowContext(ctx,
		"SELECT "+txnColumns+" FROM transactions WHERE reference = ?", ref)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reference %q: %w", ref, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if txn.Lines, err = s.loadLines(ctx, txn.ID); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListFilter restricts List output. Zero times mean unbounded; both
// bounds are inclusive.
type ListFilter struct {
	From            time.Time
	To              time.Time
	Type            model.TransactionType
	IncludeInactive bool
}

// List returns transactions matching the filter, oldest first, without
// their lines.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]model.Transaction, error) {
	query := "SELECT " + txnColumns + " FROM transactions WHERE 1=1"
	var args []any

	if !filter.IncludeInactive {
		query += " AND active = 1"
	}
	if !filter.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, filter.From.Format(dateFormat))
	}
	if !filter.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, filter.To.Format(dateFormat))
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	query += " ORDER BY date, reference"

	rows, err := s.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

func (s *Service) loadLines(ctx context.Context, txnID uuid.UUID) ([]model.TransactionLine, error) {
	rows, err := s.store.DB().QueryContext(ctx, `
		SELECT id, transaction_id, account_id, debit_cents, credit_cents,
			description, invoice_item_id, bill_item_id, party_id, active, position
		FROM transaction_lines WHERE transaction_id = ? ORDER BY position`,
		txnID.String())
	if err != nil {
		return nil, fmt.Errorf("querying lines: %w", err)
	}
	defer rows.Close()

	var lines []model.TransactionLine
	for rows.Next() {
		var (
			l           model.TransactionLine
			rawID       string
			rawTxnID    string
			rawAcctID   string
			debitCents  int64
			creditCents int64
			invoiceItem sql.NullString
			billItem    sql.NullString
			partyID     sql.NullString
		)
		err := rows.Scan(&rawID, &rawTxnID, &rawAcctID, &debitCents, &creditCents,
			&l.Description, &invoiceItem, &billItem, &partyID, &l.Active, &l.Position)
		if err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}

		if l.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("parsing line ID %q: %w", rawID, err)
		}
		if l.TransactionID, err = uuid.Parse(rawTxnID); err != nil {
			return nil, fmt.Errorf("parsing transaction ID %q: %w", rawTxnID, err)
		}
		if l.AccountID, err = uuid.Parse(rawAcctID); err != nil {
			return nil, fmt.Errorf("parsing account ID %q: %w", rawAcctID, err)
		}
		l.Debit = model.FromCents(debitCents)
		l.Credit = model.FromCents(creditCents)
		if l.InvoiceItemID, err = parseNullUUID(invoiceItem); err != nil {
			return nil, err
		}
		if l.BillItemID, err = parseNullUUID(billItem); err != nil {
			return nil, err
		}
		if l.PartyID, err = parseNullUUID(partyID); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func parseNullUUID(ns sql.NullString) (*uuid.UUID, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(ns.String)
	if err != nil {
		return nil, fmt.Errorf("parsing UUID %q: %w", ns.String, err)
	}
	return &id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var (
		t         model.Transaction
		rawID     string
		rawDate   string
		createdAt string
		updatedAt string
	)
	err := row.Scan(&rawID, &t.Reference, &t.Type, &rawDate, &t.Description,
		&t.Active, &t.PaymentSettlement, &t.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if t.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing transaction ID %q: %w", rawID, err)
	}
	if t.Date, err = time.Parse(dateFormat, rawDate); err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", rawDate, err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at %q: %w", updatedAt, err)
	}
	return &t, nil
}
