/*
filter.go - Read-side projections over the discount store

PURPOSE:
  Stateless branch/status filtering and pagination for report and list
  views. The store holds no pagination state: page and limit live in the
  caller (each report view resets its own page on filter change), so
  every call here recomputes the projection from scratch.

FILTER SEMANTICS:
  - Branch: a discount passes if it applies to all branches OR its branch
    set contains the requested branch. The AllBranches sentinel (or an
    empty branch) bypasses branch filtering entirely.
  - Status: "all" bypasses; "active"/"inactive" match exactly.

Free-text search is deliberately NOT here - it belongs to the UI layer
(api package) and composes on top of these projections.

SEE ALSO:
  - api/handlers.go: Search composition and page-state ownership
*/
package discount

import "math"

// AllBranches is the sentinel branch name that bypasses branch filtering.
const AllBranches = "All branches"

// StatusFilter selects discounts by lifecycle state in report views.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterInactive StatusFilter = "inactive"
)

// Page is one slice of a filtered projection.
type Page struct {
	Items      []Discount
	Page       int
	Limit      int
	TotalItems int
	TotalPages int
}

// FilteredDiscounts returns deep copies of the discounts matching branch
// and status, in store order.
func (s *Store) FilteredDiscounts(branch string, status StatusFilter) []Discount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Discount, 0)
	for _, d := range s.discounts {
		if !matchesBranch(d, branch) {
			continue
		}
		if !matchesStatus(d, status) {
			continue
		}
		out = append(out, d.Clone())
	}
	return out
}

// PaginatedDiscounts filters, then pages the result.
func (s *Store) PaginatedDiscounts(branch string, status StatusFilter, page, limit int) (Page, error) {
	return PaginateDiscounts(s.FilteredDiscounts(branch, status), page, limit)
}

// PaginateDiscounts slices an already-narrowed list into the page
// [(page-1)*limit, page*limit). Callers that compose extra narrowing on
// top of FilteredDiscounts (e.g. free-text search) page through this same
// helper, so the bounds arithmetic lives in one place. A page past the
// end yields an empty item list with the real totals.
func PaginateDiscounts(items []Discount, page, limit int) (Page, error) {
	if page < 1 || limit < 1 {
		return Page{}, ErrInvalidPage
	}

	total := len(items)
	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	start := (page - 1) * limit
	end := page * limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      items[start:end],
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

func matchesBranch(d Discount, branch string) bool {
	if branch == "" || branch == AllBranches {
		return true
	}
	return d.AppliesToBranch(branch)
}

func matchesStatus(d Discount, status StatusFilter) bool {
	switch status {
	case FilterActive:
		return d.Status == StatusActive
	case FilterInactive:
		return d.Status == StatusInactive
	default:
		return true
	}
}
