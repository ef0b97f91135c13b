/*
store.go - Canonical owner of discount and application records

PURPOSE:
  The Store is the single source of truth for the dashboard: it owns the
  list of discount definitions, the append-only application ledger, and
  the derived usage statistics. All mutation goes through its methods;
  all reads return defensive copies.

KEY OPERATIONS:
  Discounts / DiscountByID     Read accessors (deep copies)
  CreateDiscount               Insert, assigning id/timestamps if absent
  UpdateDiscount               Whole-record replace, aggregates preserved
  DeleteDiscount               Remove + cascade-delete applications
  ApplyDiscount                Append application + recompute aggregates
  Subscribe                    Change notifications (see bus.go)

THE ONE BUSINESS RULE:
  At most one loyalty discount may be active at a time. Creating or
  updating a loyalty discount into the active state deactivates every
  other active loyalty discount within the same critical section.

CONCURRENCY:
  A single RWMutex guards both collections so an application insert and
  its aggregate recompute are observable only as a unit. The lock is
  released before listeners run, so listeners may read the store freely.

CONSTRUCTION:
  The store is an explicitly constructed service object; the composition
  root (cmd/server) decides its lifetime. Tests build fresh instances,
  usually with WithClock for deterministic timestamps.

SEE ALSO:
  - ledger.go: Read-side queries over applications
  - filter.go: Branch/status filtering and pagination
  - aggregate.go: Derived statistics recompute
*/
package discount

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// =============================================================================
// STORE
// =============================================================================

// Store owns all discount and application records for one process.
type Store struct {
	mu           sync.RWMutex
	discounts    []Discount
	applications []Application

	bus   *Bus
	clock func() time.Time
	log   zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source. Tests use this to pin timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLogger sets the logger used for bus panic recovery and mutation logs.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		clock: time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bus = NewBus(s.log)
	return s
}

// Subscribe registers a change listener; see Bus.Subscribe.
func (s *Store) Subscribe(listener func()) (unsubscribe func()) {
	return s.bus.Subscribe(listener)
}

// =============================================================================
// READ ACCESSORS
// =============================================================================

// Discounts returns a deep copy of every discount record.
func (s *Store) Discounts() []Discount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Discount, len(s.discounts))
	for i, d := range s.discounts {
		out[i] = d.Clone()
	}
	return out
}

// DiscountByID returns a copy of the matching record or ErrDiscountNotFound.
func (s *Store) DiscountByID(id string) (Discount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Discount{}, &NotFoundError{ID: id}
	}
	return s.discounts[i].Clone(), nil
}

// indexOf returns the position of a discount id, or -1. Caller holds mu.
func (s *Store) indexOf(id string) int {
	for i := range s.discounts {
		if s.discounts[i].ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateDiscount inserts a new discount. Missing id, timestamps, and usage
// counters are assigned; provided ones (e.g. from seed data) are kept.
// If the new discount is an active loyalty discount, every other active
// loyalty discount is deactivated in the same operation.
func (s *Store) CreateDiscount(d Discount) (Discount, error) {
	if err := validateDiscount(d); err != nil {
		return Discount{}, err
	}

	s.mu.Lock()
	now := s.clock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	} else if s.indexOf(d.ID) >= 0 {
		s.mu.Unlock()
		return Discount{}, fmt.Errorf("%w: discount %q already exists", ErrInvalidInput, d.ID)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = now
	}

	if d.IsActiveLoyalty() {
		s.deactivateOtherLoyaltyLocked(d.ID, now)
	}

	s.discounts = append(s.discounts, d.Clone())
	out := d.Clone()
	s.mu.Unlock()

	s.log.Debug().Str("id", out.ID).Str("kind", string(out.Kind)).Msg("discount created")
	s.bus.Publish()
	return out, nil
}

// UpdateDiscount replaces the record wholesale and bumps UpdatedAt.
// The aggregate fields and the immutable identity fields are preserved
// from the stored record regardless of what the caller sent; an edit form
// must never reset statistics the ledger produced.
func (s *Store) UpdateDiscount(id string, d Discount) (Discount, error) {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Discount{}, &NotFoundError{ID: id}
	}

	preserveAggregates(&d, s.discounts[i])
	if err := validateDiscount(d); err != nil {
		s.mu.Unlock()
		return Discount{}, err
	}

	now := s.clock()
	d.UpdatedAt = now

	// Exclusivity must skip the record being updated, otherwise it would
	// deactivate itself.
	if d.IsActiveLoyalty() {
		s.deactivateOtherLoyaltyLocked(id, now)
	}

	s.discounts[i] = d.Clone()
	out := d.Clone()
	s.mu.Unlock()

	s.log.Debug().Str("id", id).Msg("discount updated")
	s.bus.Publish()
	return out, nil
}

// DeleteDiscount removes a discount and cascades to its applications.
// Returns ErrDiscountNotFound for a missing id; callers treating delete as
// idempotent can ignore it via IsNotFound.
func (s *Store) DeleteDiscount(id string) error {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return &NotFoundError{ID: id}
	}

	s.discounts = append(s.discounts[:i], s.discounts[i+1:]...)

	kept := s.applications[:0]
	for _, app := range s.applications {
		if app.DiscountID != id {
			kept = append(kept, app)
		}
	}
	s.applications = kept
	s.mu.Unlock()

	s.log.Debug().Str("id", id).Msg("discount deleted")
	s.bus.Publish()
	return nil
}

// ApplyDiscount records one use of a discount on an order. It is the only
// way applications are created. The insert and the aggregate recompute
// happen in one critical section.
func (s *Store) ApplyDiscount(discountID string, in ApplyInput) (Application, error) {
	if err := validateApplyInput(in); err != nil {
		return Application{}, err
	}

	s.mu.Lock()

	i := s.indexOf(discountID)
	if i < 0 {
		s.mu.Unlock()
		return Application{}, &NotFoundError{ID: discountID}
	}

	now := s.clock()
	app := Application{
		ID:             uuid.NewString(),
		DiscountID:     discountID,
		Timestamp:      now,
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		OrderID:        newOrderID(),
		Branch:         in.Branch,
		OrderAmount:    in.OrderAmount,
		DiscountAmount: in.DiscountAmount,
		Server:         in.Server,
		BankCard:       in.BankCard,
	}

	s.applications = append(s.applications, app)
	recordUsage(&s.discounts[i], in.DiscountAmount, now)
	s.mu.Unlock()

	s.log.Debug().
		Str("discount_id", discountID).
		Str("order_id", app.OrderID).
		Str("amount", in.DiscountAmount.String()).
		Msg("discount applied")
	s.bus.Publish()
	return app, nil
}

// Reset drops all records. Used by the demo scenario endpoints.
func (s *Store) Reset() {
	s.mu.Lock()
	s.discounts = nil
	s.applications = nil
	s.mu.Unlock()

	s.bus.Publish()
}

// deactivateOtherLoyaltyLocked enforces loyalty exclusivity: every active
// loyalty discount other than keepID becomes inactive. Caller holds mu.
func (s *Store) deactivateOtherLoyaltyLocked(keepID string, now time.Time) {
	for i := range s.discounts {
		d := &s.discounts[i]
		if d.ID != keepID && d.IsActiveLoyalty() {
			d.Status = StatusInactive
			d.UpdatedAt = now
		}
	}
}

// newOrderID generates a short display-friendly order reference.
func newOrderID() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
