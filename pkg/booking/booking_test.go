package booking_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/effective-security/dinefind/pkg/booking"
	"github.com/effective-security/dinefind/pkg/catalog"
)

func boolPtr(v bool) *bool { return &v }

// fixedClock pins "now" so past-date checks are reproducible.
var fixedClock = func() time.Time {
	return time.Date(2026, 1, 15, 12, 0, 0, 0, time.Local)
}

func testEngine() *booking.Engine {
	return booking.NewEngine(booking.WithClock(fixedClock))
}

func bistro() *catalog.RestaurantRecord {
	return &catalog.RestaurantRecord{
		PlaceID:    "ChIJbistro001",
		Name:       "Blue Heron Bistro",
		Reservable: boolPtr(true),
	}
}

func Test_CheckAvailability_MalformedDateTime(t *testing.T) {
	eng := testEngine()
	for _, dt := range []string{"", "not-a-date", "2026-13-45T19:00", "tomorrow at 7"} {
		verdict := eng.CheckAvailability(bistro(), dt, 2)
		assert.False(t, verdict.Available, "dateTime %q", dt)
		assert.Contains(t, verdict.Message, "not valid")
		assert.Empty(t, verdict.SuggestedSlots)
	}
}

func Test_CheckAvailability_PastDates(t *testing.T) {
	eng := testEngine()

	yesterday := fixedClock().Add(-24 * time.Hour).Format("2006-01-02T15:04")
	verdict := eng.CheckAvailability(bistro(), yesterday, 2)
	assert.False(t, verdict.Available)
	assert.Contains(t, verdict.Message, "past dates")

	// the exact current instant is rejected too: the slot must be strictly
	// in the future
	now := fixedClock().Format("2006-01-02T15:04")
	verdict = eng.CheckAvailability(bistro(), now, 2)
	assert.False(t, verdict.Available)
	assert.Contains(t, verdict.Message, "past dates")
}

func Test_CheckAvailability_PartySizeBounds(t *testing.T) {
	eng := testEngine()
	slot := "2026-06-01T19:00"

	for _, size := range []int{0, -1, 21, 25} {
		verdict := eng.CheckAvailability(bistro(), slot, size)
		assert.False(t, verdict.Available, "partySize %d", size)
		assert.Contains(t, verdict.Message, "between 1 and 20")
	}

	// boundary-inclusive: 1 and 20 pass validation and reach the
	// availability derivation
	for _, size := range []int{1, 20} {
		verdict := eng.CheckAvailability(bistro(), slot, size)
		assert.NotContains(t, verdict.Message, "between 1 and 20", "partySize %d", size)
	}
}

func Test_CheckAvailability_NotReservable(t *testing.T) {
	eng := testEngine()
	rec := bistro()
	rec.Reservable = boolPtr(false)

	verdict := eng.CheckAvailability(rec, "2026-06-01T19:00", 2)
	assert.False(t, verdict.Available)
	assert.Contains(t, verdict.Message, "does not accept reservations")

	// unknown reservability is not a refusal
	rec.Reservable = nil
	verdict = eng.CheckAvailability(rec, "2026-06-01T19:00", 2)
	assert.NotContains(t, verdict.Message, "does not accept reservations")
}

func Test_CheckAvailability_Deterministic(t *testing.T) {
	eng := testEngine()
	other := testEngine()

	for i := 0; i < 50; i++ {
		placeID := fmt.Sprintf("place-%d", i)
		rec := &catalog.RestaurantRecord{PlaceID: placeID, Name: "R", Reservable: boolPtr(true)}
		slot := fmt.Sprintf("2026-06-01T%02d:00", 10+i%12)
		size := 1 + i%20

		first := eng.CheckAvailability(rec, slot, size)
		second := eng.CheckAvailability(rec, slot, size)
		third := other.CheckAvailability(rec, slot, size)
		assert.Equal(t, first, second)
		assert.Equal(t, first, third, "verdict must be stable across engine instances")
	}
}

func Test_CheckAvailability_EquivalentInputsHashAlike(t *testing.T) {
	eng := testEngine()
	rec := bistro()

	// the same instant in different accepted layouts yields one verdict
	a := eng.CheckAvailability(rec, "2026-06-01T19:00", 4)
	b := eng.CheckAvailability(rec, "2026-06-01 19:00", 4)
	c := eng.CheckAvailability(rec, "2026-06-01T19:00:00", 4)
	assert.Equal(t, a.Available, b.Available)
	assert.Equal(t, a.Available, c.Available)
}

func Test_CheckAvailability_SuggestedSlots(t *testing.T) {
	eng := testEngine()
	rec := bistro()

	// scan a range of slots; positive verdicts carry exactly the requested
	// slot, negative ones carry none
	foundAvailable := false
	for day := 1; day <= 28; day++ {
		slot := fmt.Sprintf("2026-06-%02dT19:00", day)
		verdict := eng.CheckAvailability(rec, slot, 2)
		if verdict.Available {
			foundAvailable = true
			assert.Equal(t, []string{slot}, verdict.SuggestedSlots)
		} else {
			assert.Empty(t, verdict.SuggestedSlots)
		}
	}
	assert.True(t, foundAvailable, "expected at least one available slot in a 28-day scan")
}

func Test_CheckAvailability_BiasAgainstLargePartiesAndOffHours(t *testing.T) {
	eng := testEngine()

	countAvailable := func(slotHour, size int) int {
		n := 0
		for i := 0; i < 300; i++ {
			rec := &catalog.RestaurantRecord{
				PlaceID:    fmt.Sprintf("bias-place-%d", i),
				Name:       "R",
				Reservable: boolPtr(true),
			}
			slot := fmt.Sprintf("2026-06-01T%02d:00", slotHour)
			if eng.CheckAvailability(rec, slot, size).Available {
				n++
			}
		}
		return n
	}

	normal := countAvailable(19, 4)
	largeParty := countAvailable(19, 12)
	offHours := countAvailable(23, 4)

	assert.Greater(t, normal, largeParty, "large parties must be less likely to find a table")
	assert.Greater(t, normal, offHours, "off-hours requests must be less likely to find a table")
}

func Test_CheckAvailability_NilRestaurantPanics(t *testing.T) {
	eng := testEngine()
	assert.Panics(t, func() {
		eng.CheckAvailability(nil, "2026-06-01T19:00", 2)
	})
}

func Test_MakeReservation_ContactValidationFirst(t *testing.T) {
	eng := testEngine()
	rec := bistro()

	// the missing-contact rejection is identical regardless of the triple,
	// so it cannot depend on the availability hash; even a malformed date
	// is not inspected before the contact check
	out1 := eng.MakeReservation(rec, &booking.ReservationRequest{
		PlaceID:      "a-place",
		DateTime:     "2026-06-01T19:00",
		PartySize:    2,
		ContactPhone: "+1-555-0100",
	})
	out2 := eng.MakeReservation(rec, &booking.ReservationRequest{
		PlaceID:      "completely-different",
		DateTime:     "garbage",
		PartySize:    19,
		ContactPhone: "+1-555-0100",
	})
	assert.False(t, out1.Success)
	assert.Contains(t, out1.Message, "contactName")
	assert.Equal(t, out1, out2)

	out3 := eng.MakeReservation(rec, &booking.ReservationRequest{
		PlaceID:     "a-place",
		DateTime:    "2026-06-01T19:00",
		PartySize:   2,
		ContactName: "Alex Chen",
	})
	assert.False(t, out3.Success)
	assert.Contains(t, out3.Message, "contactPhone")
}

func Test_MakeReservation_UnavailableVerdictPassedVerbatim(t *testing.T) {
	eng := testEngine()
	rec := bistro()
	rec.Reservable = boolPtr(false)

	out := eng.MakeReservation(rec, &booking.ReservationRequest{
		PlaceID:      rec.PlaceID,
		DateTime:     "2026-06-01T19:00",
		PartySize:    2,
		ContactName:  "Alex Chen",
		ContactPhone: "+1-555-0100",
	})
	assert.False(t, out.Success)
	assert.Empty(t, out.ConfirmationCode)

	verdict := eng.CheckAvailability(rec, "2026-06-01T19:00", 2)
	assert.Equal(t, verdict.Message, out.Message)
}

func Test_MakeReservation_IdempotentConfirmation(t *testing.T) {
	eng := testEngine()
	rec := bistro()

	// find an available slot so the reservation succeeds
	var slot string
	for day := 1; day <= 28; day++ {
		candidate := fmt.Sprintf("2026-06-%02dT19:00", day)
		if eng.CheckAvailability(rec, candidate, 2).Available {
			slot = candidate
			break
		}
	}
	require.NotEmpty(t, slot, "expected an available slot in a 28-day scan")

	req := &booking.ReservationRequest{
		PlaceID:      rec.PlaceID,
		DateTime:     slot,
		PartySize:    2,
		ContactName:  "Alex Chen",
		ContactPhone: "+1-555-0100",
	}

	first := eng.MakeReservation(rec, req)
	require.True(t, first.Success, "message: %s", first.Message)
	assert.NotEmpty(t, first.ConfirmationCode)
	assert.Contains(t, first.Message, rec.Name)
	assert.Contains(t, first.Message, "2 guests")

	// repeated identical requests return the same code, not a new booking
	second := eng.MakeReservation(rec, req)
	assert.Equal(t, first, second)

	// a different contact produces a different code
	req2 := *req
	req2.ContactPhone = "+1-555-0199"
	third := eng.MakeReservation(rec, &req2)
	require.True(t, third.Success)
	assert.NotEqual(t, first.ConfirmationCode, third.ConfirmationCode)
}

func Test_MakeReservation_PartySizeValidated(t *testing.T) {
	eng := testEngine()

	out := eng.MakeReservation(bistro(), &booking.ReservationRequest{
		PlaceID:      "a-place",
		DateTime:     "2026-06-01T19:00",
		PartySize:    25,
		ContactName:  "Alex Chen",
		ContactPhone: "+1-555-0100",
	})
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "between 1 and 20")
}
