package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bookkeep-dev/bookkeep/internal/model"
	"github.com/bookkeep-dev/bookkeep/internal/store"
)

// Service maintains per-customer receivable and per-vendor payable
// running totals. These are fast-path accumulators updated alongside
// ledger postings, not authoritative; Reconcile compares them against
// ledger truth.
type Service struct {
	store *store.Store
	log   zerolog.Logger
}

// NewService creates a tracker service.
func NewService(st *store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// Delta is a tracker adjustment applied inside a ledger posting.
type Delta struct {
	PartyID uuid.UUID
	Kind    model.PartyKind
	Amount  decimal.Decimal // receivable/payable delta, may be negative
	Advance decimal.Decimal // advance/prepayment delta, may be negative
}

// CreateParty registers a customer or vendor.
func (s *Service) CreateParty(ctx context.Context, kind model.PartyKind, name string) (*model.Party, error) {
	if kind != model.PartyCustomer && kind != model.PartyVendor {
		return nil, fmt.Errorf("unknown party kind %q", kind)
	}
	if name == "" {
		return nil, fmt.Errorf("party name is required")
	}

	p := &model.Party{
		ID:        uuid.New(),
		Kind:      kind,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO parties (id, kind, name, active, created_at)
			VALUES (?, ?, ?, 1, ?)`,
			p.ID.String(), string(p.Kind), p.Name, p.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting party %s: %w", p.Name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetParty returns a party by ID, or store.ErrNotFound.
func (s *Service) GetParty(ctx context.Context, id uuid.UUID) (*model.Party, error) {
	var (
		p         model.Party
		rawID     string
		createdAt string
	)
	err := s.store.DB().QueryRowContext(ctx,
		"SELECT id, kind, name, active, created_at FROM parties WHERE id = ?",
		id.String()).Scan(&rawID, &p.Kind, &p.Name, &p.Active, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("party %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying party: %w", err)
	}

	if p.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing party ID %q: %w", rawID, err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	return &p, nil
}

// RecordReceivable adjusts a customer's running receivable total.
func (s *Service) RecordReceivable(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) error {
	return s.record(ctx, Delta{PartyID: customerID, Kind: model.PartyCustomer, Amount: delta})
}

// RecordPayable adjusts a vendor's running payable total.
func (s *Service) RecordPayable(ctx context.Context, vendorID uuid.UUID, delta decimal.Decimal) error {
	return s.record(ctx, Delta{PartyID: vendorID, Kind: model.PartyVendor, Amount: delta})
}

// RecordAdvance adjusts a party's advance/prepayment total.
func (s *Service) RecordAdvance(ctx context.Context, partyID uuid.UUID, kind model.PartyKind, delta decimal.Decimal) error {
	return s.record(ctx, Delta{PartyID: partyID, Kind: kind, Advance: delta})
}

func (s *Service) record(ctx context.Context, d Delta) error {
	return s.store.WithTx(ctx, func(tx *sql.Tx) error {
		return Apply(tx, d)
	})
}

// Apply upserts a tracker delta inside an existing transaction so the
// accumulator moves together with the ledger posting it accompanies.
func Apply(tx *sql.Tx, d Delta) error {
	table, err := trackingTable(d.Kind)
	if err != nil {
		return err
	}

	var kind string
	err = tx.QueryRow("SELECT kind FROM parties WHERE id = ? AND active = 1", d.PartyID.String()).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("party %s: %w", d.PartyID, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking party: %w", err)
	}
	if model.PartyKind(kind) != d.Kind {
		return fmt.Errorf("party %s is a %s, not a %s", d.PartyID, kind, d.Kind)
	}

	_, err = tx.Exec(`
		INSERT INTO `+table+` (party_id, amount_cents, advance_cents, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (party_id) DO UPDATE SET
			amount_cents = amount_cents + excluded.amount_cents,
			advance_cents = advance_cents + excluded.advance_cents,
			updated_at = excluded.updated_at`,
		d.PartyID.String(), model.Cents(d.Amount), model.Cents(d.Advance),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("applying %s delta for party %s: %w", d.Kind, d.PartyID, err)
	}
	return nil
}

// Receivable returns the running receivable totals for a customer.
// A customer with no recorded activity has zero totals.
func (s *Service) Receivable(ctx context.Context, customerID uuid.UUID) (model.Tracking, error) {
	return s.tracking(ctx, "receivable_tracking", customerID)
}

// Payable returns the running payable totals for a vendor.
func (s *Service) Payable(ctx context.Context, vendorID uuid.UUID) (model.Tracking, error) {
	return s.tracking(ctx, "payable_tracking", vendorID)
}

func (s *Service) tracking(ctx context.Context, table string, partyID uuid.UUID) (model.Tracking, error) {
	t := model.Tracking{PartyID: partyID, Amount: decimal.Zero, Advance: decimal.Zero}

	var (
		amountCents  int64
		advanceCents int64
		updatedAt    string
	)
	err := s.store.DB().QueryRowContext(ctx,
		"SELECT amount_cents, advance_cents, updated_at FROM "+table+" WHERE party_id = ?",
		partyID.String()).Scan(&amountCents, &advanceCents, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("querying %s: %w", table, err)
	}

	t.Amount = model.FromCents(amountCents)
	t.Advance = model.FromCents(advanceCents)
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return t, fmt.Errorf("parsing updated_at %q: %w", updatedAt, err)
	}
	return t, nil
}

func trackingTable(kind model.PartyKind) (string, error) {
	switch kind {
	case model.PartyCustomer:
		return "receivable_tracking", nil
	case model.PartyVendor:
		return "payable_tracking", nil
	default:
		return "", fmt.Errorf("unknown party kind %q", kind)
	}
}
