package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookkeep-dev/bookkeep/internal/accounts"
	"github.com/bookkeep-dev/bookkeep/internal/audit"
	"github.com/bookkeep-dev/bookkeep/internal/model"
	"github.com/bookkeep-dev/bookkeep/internal/refnum"
	"github.com/bookkeep-dev/bookkeep/internal/store"
	"github.com/bookkeep-dev/bookkeep/internal/tracker"
)

// dateFormat is how transaction dates are stored; date-only so range
// filters are inclusive of both endpoints.
const dateFormat = "2006-01-02"

// AccountDirectory resolves chart-of-accounts entries for postings.
type AccountDirectory interface {
	GetByCode(ctx context.Context, code string) (*model.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

// Service posts, voids and edits ledger transactions. Every mutation
// runs as one atomic unit: the transaction row, its lines, the cached
// account balances, any tracker deltas and the audit entry commit or
// roll back together.
type Service struct {
	store    *store.Store
	accounts AccountDirectory
	log      zerolog.Logger
}

// NewService creates a ledger service.
func NewService(st *store.Store, dir AccountDirectory, log zerolog.Logger) *Service {
	return &Service{store: st, accounts: dir, log: log}
}

// PostParams holds parameters for posting a transaction.
type PostParams struct {
	Reference         string // generated from the date when empty
	Type              model.TransactionType
	Date              time.Time
	Description       string
	PaymentSettlement bool
	CreatedBy         string
	Lines             []LineParams
	// Trackers are receivable/payable accumulator deltas applied in
	// the same atomic unit as the posting.
	Trackers []tracker.Delta
}

// Post validates and persists a balanced transaction, applying each
// line's signed delta to its account's cached balance. Validation
// failures are rejected before any persistence attempt.
func (s *Service) Post(ctx context.Context, params PostParams) (*model.Transaction, error) {
	verrs := ValidateHeader(params.Reference, params.Type, params.Date)
	verrs = append(verrs, ValidateLines(params.Reference, params.Lines)...)
	if err := joinValidation(verrs); err != nil {
		return nil, err
	}

	resolved, err := s.resolveAccounts(ctx, params.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &model.Transaction{
		ID:                uuid.New(),
		Reference:         params.Reference,
		Type:              params.Type,
		Date:              params.Date,
		Description:       params.Description,
		Active:            true,
		PaymentSettlement: params.PaymentSettlement,
		CreatedBy:         params.CreatedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		// The closure may re-run on transient contention; reset
		// per-attempt state.
		txn.Lines = nil
		txn.Reference = params.Reference
		if txn.Reference == "" {
			ref, err := nextReference(tx, params.Date)
			if err != nil {
				return err
			}
			txn.Reference = ref
		}

		if err := insertTransaction(tx, txn); err != nil {
			if store.IsUniqueViolation(err) {
				return fmt.Errorf("reference %q: %w", txn.Reference, store.ErrConflict)
			}
			return err
		}

		for i, lp := range params.Lines {
			acct := resolved[lp.AccountCode]
			line := buildLine(txn.ID, acct.ID, lp, i)
			if err := insertLine(tx, line); err != nil {
				return err
			}
			if err := accounts.AdjustBalance(tx, acct.ID, lineDeltaCents(line, acct.Category())); err != nil {
				return err
			}
			txn.Lines = append(txn.Lines, *line)
		}

		for _, d := range params.Trackers {
			if err := tracker.Apply(tx, d); err != nil {
				return err
			}
		}

		return audit.Record(tx, audit.Entry{
			Actor:     params.CreatedBy,
			Action:    "post",
			Reference: txn.Reference,
			Detail:    fmt.Sprintf("%s: %s", txn.Type, txn.Description),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("reference", txn.Reference).
		Str("type", string(txn.Type)).
		Str("amount", txn.TotalDebits().StringFixed(2)).
		Msg("transaction posted")
	return txn, nil
}

// Void soft-deactivates a transaction and its lines and reverses each
// line's cached-balance delta. Voiding an already-voided transaction
// is rejected so the reversal is applied exactly once.
func (s *Service) Void(ctx context.Context, id uuid.UUID, actor string) error {
	var reference string
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		active, ref, err := transactionState(tx, id)
		if err != nil {
			return err
		}
		reference = ref
		if !active {
			return fmt.Errorf("%w: transaction %s is already voided", ErrValidation, ref)
		}

		if err := reverseActiveLines(tx, id); err != nil {
			return err
		}

		now := time.Now().UTC().Format(time.RFC3339)
		if _, err := tx.Exec(
			"UPDATE transaction_lines SET active = 0 WHERE transaction_id = ? AND active = 1",
			id.String()); err != nil {
			return fmt.Errorf("deactivating lines: %w", err)
		}
		if _, err := tx.Exec(
			"UPDATE transactions SET active = 0, updated_at = ? WHERE id = ?",
			now, id.String()); err != nil {
			return fmt.Errorf("deactivating transaction: %w", err)
		}

		return audit.Record(tx, audit.Entry{
			Actor:     actor,
			Action:    "void",
			Reference: ref,
		})
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("reference", reference).Msg("transaction voided")
	return nil
}

// EditParams holds replacement values for an existing transaction.
type EditParams struct {
	Type              model.TransactionType
	Date              time.Time
	Description       string
	PaymentSettlement bool
	Actor             string
	Lines             []LineParams
	Trackers          []tracker.Delta
}

// Edit replaces a transaction's fields and line set in one atomic
// unit: the old lines' balance effect is reversed and the lines
// deactivated (preserving the audit trail), then the new lines are
// inserted and applied. Final balances match void-then-repost.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, params EditParams) (*model.Transaction, error) {
	verrs := ValidateHeader("", params.Type, params.Date)
	verrs = append(verrs, ValidateLines("", params.Lines)...)
	if err := joinValidation(verrs); err != nil {
		return nil, err
	}

	resolved, err := s.resolveAccounts(ctx, params.Lines)
	if err != nil {
		return nil, err
	}

	var txn *model.Transaction
	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		active, ref, err := transactionState(tx, id)
		if err != nil {
			return err
		}
		if !active {
			return fmt.Errorf("%w: cannot edit voided transaction %s", ErrValidation, ref)
		}

		if err := reverseActiveLines(tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec(
			"UPDATE transaction_lines SET active = 0 WHERE transaction_id = ? AND active = 1",
			id.String()); err != nil {
			return fmt.Errorf("deactivating old lines: %w", err)
		}

		now := time.Now().UTC()
		if _, err := tx.Exec(`
			UPDATE transactions
			SET type = ?, date = ?, description = ?, payment_settlement = ?, updated_at = ?
			WHERE id = ?`,
			string(params.Type), params.Date.Format(dateFormat), params.Description,
			params.PaymentSettlement, now.Format(time.RFC3339), id.String()); err != nil {
			return fmt.Errorf("updating transaction: %w", err)
		}

		txn = &model.Transaction{
			ID:                id,
			Reference:         ref,
			Type:              params.Type,
			Date:              params.Date,
			Description:       params.Description,
			Active:            true,
			PaymentSettlement: params.PaymentSettlement,
			UpdatedAt:         now,
		}
		for i, lp := range params.Lines {
			acct := resolved[lp.AccountCode]
			line := buildLine(id, acct.ID, lp, i)
			if err := insertLine(tx, line); err != nil {
				return err
			}
			if err := accounts.AdjustBalance(tx, acct.ID, lineDeltaCents(line, acct.Category())); err != nil {
				return err
			}
			txn.Lines = append(txn.Lines, *line)
		}

		for _, d := range params.Trackers {
			if err := tracker.Apply(tx, d); err != nil {
				return err
			}
		}

		return audit.Record(tx, audit.Entry{
			Actor:     params.Actor,
			Action:    "edit",
			Reference: ref,
			Detail:    fmt.Sprintf("%s: %s", params.Type, params.Description),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("reference", txn.Reference).Msg("transaction edited")
	return txn, nil
}

// resolveAccounts maps line account codes to active accounts.
func (s *Service) resolveAccounts(ctx context.Context, lines []LineParams) (map[string]*model.Account, error) {
	resolved := make(map[string]*model.Account, len(lines))
	for _, lp := range lines {
		if _, ok := resolved[lp.AccountCode]; ok {
			continue
		}
		acct, err := s.accounts.GetByCode(ctx, lp.AccountCode)
		if err != nil {
			return nil, err
		}
		if !acct.Active {
			return nil, fmt.Errorf("%w: account %s is inactive", ErrValidation, acct.Code)
		}
		resolved[lp.AccountCode] = acct
	}
	return resolved, nil
}

// lineDeltaCents is the signed cached-balance effect of a line on an
// account of the given category.
func lineDeltaCents(l *model.TransactionLine, cat model.Category) int64 {
	raw := model.Cents(l.Debit) - model.Cents(l.Credit)
	return int64(cat.NormalSign()) * raw
}

func buildLine(txnID, acctID uuid.UUID, lp LineParams, position int) *model.TransactionLine {
	return &model.TransactionLine{
		ID:            uuid.New(),
		TransactionID: txnID,
		AccountID:     acctID,
		Debit:         lp.Debit,
		Credit:        lp.Credit,
		Description:   lp.Description,
		InvoiceItemID: lp.InvoiceItemID,
		BillItemID:    lp.BillItemID,
		PartyID:       lp.PartyID,
		Active:        true,
		Position:      position,
	}
}

func insertTransaction(tx *sql.Tx, t *model.Transaction) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (id, reference, type, date, description, active,
			payment_settlement, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?, ?)`,
		t.ID.String(), t.Reference, string(t.Type), t.Date.Format(dateFormat),
		t.Description, t.PaymentSettlement, t.CreatedBy,
		t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting transaction %s: %w", t.Reference, err)
	}
	return nil
}

func insertLine(tx *sql.Tx, l *model.TransactionLine) error {
	_, err := tx.Exec(`
		INSERT INTO transaction_lines (id, transaction_id, account_id, debit_cents,
			credit_cents, description, invoice_item_id, bill_item_id, party_id, active, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		l.ID.String(), l.TransactionID.String(), l.AccountID.String(),
		model.Cents(l.Debit), model.Cents(l.Credit), l.Description,
		uuidOrNil(l.InvoiceItemID), uuidOrNil(l.BillItemID), uuidOrNil(l.PartyID),
		l.Position)
	if err != nil {
		return fmt.Errorf("inserting line %d: %w", l.Position+1, err)
	}
	return nil
}

func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

// transactionState returns the active flag and reference of a
// transaction, or store.ErrNotFound.
func transactionState(tx *sql.Tx, id uuid.UUID) (bool, string, error) {
	var (
		active bool
		ref    string
	)
	err := tx.QueryRow("SELECT active, reference FROM transactions WHERE id = ?", id.String()).
		Scan(&active, &ref)
	if errors.Is(err, sql.ErrNoRows) {
		return false, "", fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return false, "", fmt.Errorf("loading transaction: %w", err)
	}
	return active, ref, nil
}

// reverseActiveLines applies the inverse cached-balance delta of every
// active line of a transaction.
func reverseActiveLines(tx *sql.Tx, txnID uuid.UUID) error {
	rows, err := tx.Query(`
		SELECT l.account_id, l.debit_cents, l.credit_cents, a.type
		FROM transaction_lines l
		JOIN accounts a ON a.id = l.account_id
		WHERE l.transaction_id = ? AND l.active = 1`,
		txnID.String())
	if err != nil {
		return fmt.Errorf("loading lines to reverse: %w", err)
	}
	defer rows.Close()

	type reversal struct {
		accountID uuid.UUID
		delta     int64
	}
	var reversals []reversal
	for rows.Next() {
		var (
			rawID       string
			debitCents  int64
			creditCents int64
			acctType    model.AccountType
		)
		if err := rows.Scan(&rawID, &debitCents, &creditCents, &acctType); err != nil {
			return fmt.Errorf("scanning line: %w", err)
		}
		acctID, err := uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("parsing account ID %q: %w", rawID, err)
		}
		sign := int64(acctType.Category().NormalSign())
		reversals = append(reversals, reversal{
			accountID: acctID,
			delta:     -sign * (debitCents - creditCents),
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	for _, r := range reversals {
		if err := accounts.AdjustBalance(tx, r.accountID, r.delta); err != nil {
			return err
		}
	}
	return nil
}

// nextReference allocates the next reference number for the month of
// the given date, inside the posting transaction.
func nextReference(tx *sql.Tx, date time.Time) (string, error) {
	prefix := refnum.MonthPrefix(date.Year(), int(date.Month()))

	var last sql.NullString
	err := tx.QueryRow(
		"SELECT MAX(reference) FROM transactions WHERE reference LIKE ? || '%'",
		prefix).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("finding last reference: %w", err)
	}

	seq := 1
	if last.Valid && last.String != "" {
		_, _, lastSeq, err := refnum.Parse(last.String)
		if err != nil {
			return "", fmt.Errorf("parsing last reference: %w", err)
		}
		seq = lastSeq + 1
	}
	return refnum.Format(date.Year(), int(date.Month()), seq), nil
}
