package discount_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/discount-engine/discount"
)

// =============================================================================
// BRANCH + STATUS FILTERING
// =============================================================================

func TestFilteredDiscounts_BranchRules(t *testing.T) {
	// A discount passes the branch filter iff it applies to all branches
	// OR its branch set contains the requested branch.

	store, _ := newTestStore()

	everywhere, err := store.CreateDiscount(percentageDeal("Everywhere"))
	require.NoError(t, err)
	gulberg, err := store.CreateDiscount(percentageDeal("Gulberg Only", "Gulberg"))
	require.NoError(t, err)
	_, err = store.CreateDiscount(percentageDeal("DHA Only", "DHA"))
	require.NoError(t, err)

	got := store.FilteredDiscounts("Gulberg", discount.FilterAll)
	require.Len(t, got, 2)
	assert.Equal(t, everywhere.ID, got[0].ID)
	assert.Equal(t, gulberg.ID, got[1].ID)
}

func TestFilteredDiscounts_SentinelBypassesBranch(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.CreateDiscount(percentageDeal("Gulberg Only", "Gulberg"))
	require.NoError(t, err)
	_, err = store.CreateDiscount(percentageDeal("DHA Only", "DHA"))
	require.NoError(t, err)

	assert.Len(t, store.FilteredDiscounts(discount.AllBranches, discount.FilterAll), 2)
	assert.Len(t, store.FilteredDiscounts("", discount.FilterAll), 2)
}

func TestFilteredDiscounts_Status(t *testing.T) {
	store, _ := newTestStore()

	active := percentageDeal("Active Deal")
	_, err := store.CreateDiscount(active)
	require.NoError(t, err)

	inactive := percentageDeal("Inactive Deal")
	inactive.Status = discount.StatusInactive
	_, err = store.CreateDiscount(inactive)
	require.NoError(t, err)

	assert.Len(t, store.FilteredDiscounts("", discount.FilterActive), 1)
	assert.Len(t, store.FilteredDiscounts("", discount.FilterInactive), 1)
	assert.Len(t, store.FilteredDiscounts("", discount.FilterAll), 2)
}

// =============================================================================
// PAGINATION
// =============================================================================

func TestPaginatedDiscounts_Bounds(t *testing.T) {
	// GIVEN: 15 discounts, page=2, limit=10
	// THEN: Exactly the last 5 items, totalPages=2

	store, _ := newTestStore()

	for i := 1; i <= 15; i++ {
		_, err := store.CreateDiscount(percentageDeal(fmt.Sprintf("Deal %02d", i)))
		require.NoError(t, err)
	}

	page, err := store.PaginatedDiscounts("", discount.FilterAll, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 15, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "Deal 11", page.Items[0].Name)
	assert.Equal(t, "Deal 15", page.Items[4].Name)
}

func TestPaginatedDiscounts_PageBeyondEnd(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.CreateDiscount(percentageDeal("Only One"))
	require.NoError(t, err)

	page, err := store.PaginatedDiscounts("", discount.FilterAll, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)
}

func TestPaginatedDiscounts_ComposesWithFilters(t *testing.T) {
	store, _ := newTestStore()

	for i := 0; i < 3; i++ {
		_, err := store.CreateDiscount(percentageDeal(fmt.Sprintf("Gulberg %d", i), "Gulberg"))
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := store.CreateDiscount(percentageDeal(fmt.Sprintf("DHA %d", i), "DHA"))
		require.NoError(t, err)
	}

	page, err := store.PaginatedDiscounts("Gulberg", discount.FilterAll, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 2)
}

func TestPaginateDiscounts_SliceHelper(t *testing.T) {
	// Callers that narrow beyond branch/status (free-text search in the
	// API layer) page their own slices through the same helper.

	items := make([]discount.Discount, 7)
	for i := range items {
		items[i] = discount.Discount{Name: fmt.Sprintf("Deal %d", i+1)}
	}

	page, err := discount.PaginateDiscounts(items, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Deal 4", page.Items[0].Name)
	assert.Equal(t, "Deal 6", page.Items[2].Name)

	_, err = discount.PaginateDiscounts(items, 0, 3)
	assert.ErrorIs(t, err, discount.ErrInvalidPage)
}

func TestPaginatedDiscounts_RejectsBadParams(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.PaginatedDiscounts("", discount.FilterAll, 0, 10)
	assert.ErrorIs(t, err, discount.ErrInvalidPage)

	_, err = store.PaginatedDiscounts("", discount.FilterAll, 1, 0)
	assert.ErrorIs(t, err, discount.ErrInvalidPage)
}
