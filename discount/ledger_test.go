package discount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/discount-engine/discount"
)

// =============================================================================
// ORDERING CONTRACT
// =============================================================================

func TestApplications_NewestFirst(t *testing.T) {
	// GIVEN: Applications recorded at increasing timestamps
	// WHEN: Querying the ledger
	// THEN: Entries come back newest first, regardless of insertion order

	store, clock := newTestStore()

	d, err := store.CreateDiscount(percentageDeal("Ordered"))
	require.NoError(t, err)

	var stamps []time.Time
	for i := 0; i < 4; i++ {
		clock.Advance(time.Hour)
		stamps = append(stamps, clock.Now())
		_, err := store.ApplyDiscount(d.ID, applyInput("Gulberg", 100))
		require.NoError(t, err)
	}

	apps, err := store.Applications(d.ID, discount.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, apps, 4)

	for i, app := range apps {
		assert.Equal(t, stamps[len(stamps)-1-i], app.Timestamp, "position %d", i)
	}
}

// =============================================================================
// DATE WINDOW
// =============================================================================

func TestApplications_DateWindowInclusive(t *testing.T) {
	// The window is [start, end] inclusive on both ends.

	store, clock := newTestStore()

	d, err := store.CreateDiscount(percentageDeal("Windowed"))
	require.NoError(t, err)

	day := func(n int) time.Time {
		return time.Date(2026, time.March, n, 10, 0, 0, 0, time.UTC)
	}
	for n := 1; n <= 5; n++ {
		clock.Set(day(n))
		_, err := store.ApplyDiscount(d.ID, applyInput("Gulberg", 100))
		require.NoError(t, err)
	}

	start, end := day(2), day(4)
	apps, err := store.Applications(d.ID, discount.ApplicationFilter{Start: &start, End: &end})
	require.NoError(t, err)

	require.Len(t, apps, 3)
	assert.Equal(t, day(4), apps[0].Timestamp)
	assert.Equal(t, day(2), apps[2].Timestamp)
}

func TestApplications_RejectsInvertedWindow(t *testing.T) {
	store, _ := newTestStore()

	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err := store.Applications("any", discount.ApplicationFilter{Start: &start, End: &end})
	assert.ErrorIs(t, err, discount.ErrInvalidDateRange)
}

// =============================================================================
// BRANCH FILTER
// =============================================================================

func TestApplications_BranchFilter(t *testing.T) {
	store, _ := newTestStore()

	d, err := store.CreateDiscount(percentageDeal("Branched"))
	require.NoError(t, err)

	for _, branch := range []string{"Gulberg", "DHA", "Gulberg"} {
		_, err := store.ApplyDiscount(d.ID, applyInput(branch, 100))
		require.NoError(t, err)
	}

	apps, err := store.Applications(d.ID, discount.ApplicationFilter{Branch: "Gulberg"})
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	// The sentinel (and the empty string) bypass branch filtering.
	apps, err = store.Applications(d.ID, discount.ApplicationFilter{Branch: discount.AllBranches})
	require.NoError(t, err)
	assert.Len(t, apps, 3)

	apps, err = store.Applications(d.ID, discount.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, apps, 3)
}

func TestApplications_UnknownDiscountIsEmpty(t *testing.T) {
	// A missing id yields an empty list, not an error: after a cascade
	// delete there is simply nothing left to return.

	store, _ := newTestStore()

	apps, err := store.Applications("ghost", discount.ApplicationFilter{})
	require.NoError(t, err)
	assert.Empty(t, apps)
}
