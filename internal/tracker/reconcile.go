package tracker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookkeep-dev/bookkeep/internal/model"
)

// Drift is a disagreement between a tracker accumulator and the ledger.
type Drift struct {
	PartyID   uuid.UUID
	PartyName string
	Kind      model.PartyKind
	Tracked   decimal.Decimal // accumulator value
	Derived   decimal.Decimal // recomputed from active ledger lines
}

// Diff returns tracked minus derived.
func (d Drift) Diff() decimal.Decimal {
	return d.Tracked.Sub(d.Derived)
}

// Reconcile recomputes per-party totals from active transaction lines
// on receivable/payable control accounts and returns every party whose
// accumulator disagrees with the ledger. The accumulators are left
// untouched; fixing drift is the caller's decision.
func (s *Service) Reconcile(ctx context.Context) ([]Drift, error) {
	receivable, err := s.reconcileKind(ctx, model.PartyCustomer,
		"receivable_tracking", model.TypeAccountsReceivable)
	if err != nil {
		return nil, err
	}
	payable, err := s.reconcileKind(ctx, model.PartyVendor,
		"payable_tracking", model.TypeAccountsPayable)
	if err != nil {
		return nil, err
	}
	return append(receivable, payable...), nil
}

func (s *Service) reconcileKind(ctx context.Context, kind model.PartyKind, table string, controlType model.AccountType) ([]Drift, error) {
	// Derived totals use the control account's normal balance: AR is
	// debit-normal, AP is credit-normal.
	sign := int64(controlType.Category().NormalSign())

	rows, err := s.store.DB().QueryContext(ctx, `
		SELECT p.id, p.name,
		       COALESCE(t.amount_cents, 0),
		       COALESCE((
		           SELECT SUM((l.debit_cents - l.credit_cents) * ?)
		           FROM transaction_lines l
		           JOIN transactions txn ON txn.id = l.transaction_id
		           JOIN accounts a ON a.id = l.account_id
		           WHERE l.party_id = p.id AND l.active = 1
		             AND txn.active = 1 AND a.type = ?
		       ), 0)
		FROM parties p
		LEFT JOIN `+table+` t ON t.party_id = p.id
		WHERE p.kind = ? AND p.active = 1`,
		sign, string(controlType), string(kind))
	if err != nil {
		return nil, fmt.Errorf("reconciling %s: %w", kind, err)
	}
	defer rows.Close()

	var drifts []Drift
	for rows.Next() {
		var (
			rawID        string
			name         string
			trackedCents int64
			derivedCents int64
		)
		if err := rows.Scan(&rawID, &name, &trackedCents, &derivedCents); err != nil {
			return nil, fmt.Errorf("scanning reconcile row: %w", err)
		}
		if trackedCents == derivedCents {
			continue
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parsing party ID %q: %w", rawID, err)
		}
		drifts = append(drifts, Drift{
			PartyID:   id,
			PartyName: name,
			Kind:      kind,
			Tracked:   model.FromCents(trackedCents),
			Derived:   model.FromCents(derivedCents),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(drifts) > 0 {
		s.log.Warn().Int("parties", len(drifts)).Str("kind", string(kind)).
			Msg("tracker accumulators drifted from ledger")
	}
	return drifts, nil
}
