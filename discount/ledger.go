/*
ledger.go - Read-side queries over the application ledger

PURPOSE:
  Applications are appended by Store.ApplyDiscount and removed only by the
  delete cascade; this file is the query side. The newest-first ordering
  is a contract, not an accident - report views and exports both assume
  the first entry is the most recent one.

QUERY SEMANTICS:
  - Scoped to one discount id; a missing or deleted id yields an empty
    list, not an error (the cascade already removed its entries).
  - An optional date window keeps entries with Timestamp in [Start, End]
    inclusive. A window with End before Start is rejected defensively
    with ErrInvalidDateRange instead of trusting the UI contract.
  - An optional branch restricts to that branch; the AllBranches sentinel
    (or empty string) bypasses branch filtering.

SEE ALSO:
  - store.go: The write side
  - filter.go: Discount-level projections and the AllBranches sentinel
*/
package discount

import (
	"sort"
	"time"
)

// ApplicationFilter narrows an application query. Zero value means no
// filtering beyond the discount id.
type ApplicationFilter struct {
	Start  *time.Time
	End    *time.Time
	Branch string
}

// Applications returns the ledger entries for one discount, newest first.
func (s *Store) Applications(discountID string, f ApplicationFilter) ([]Application, error) {
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return nil, ErrInvalidDateRange
	}

	s.mu.RLock()
	result := make([]Application, 0)
	for _, app := range s.applications {
		if app.DiscountID != discountID {
			continue
		}
		if f.Start != nil && app.Timestamp.Before(*f.Start) {
			continue
		}
		if f.End != nil && app.Timestamp.After(*f.End) {
			continue
		}
		if f.Branch != "" && f.Branch != AllBranches && app.Branch != f.Branch {
			continue
		}
		result = append(result, app)
	}
	s.mu.RUnlock()

	// Newest first. Stable so same-timestamp entries keep insertion order.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result, nil
}
