// Package booking validates reservation requests against a restaurant record
// and produces deterministic availability verdicts and reservation outcomes.
//
// There is no real inventory integration: availability is a pure function of
// the (placeId, dateTime, partySize) triple, derived from a stable hash, so
// the same request always yields the same verdict across calls and process
// restarts. The only wall-clock dependence is the past-date check.
package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/effective-security/dinefind/pkg/catalog"
)

// ReservationRequest carries the caller's reservation intent. Contact fields
// are required for MakeReservation only.
type ReservationRequest struct {
	PlaceID         string `json:"placeId" validate:"required"`
	DateTime        string `json:"dateTime" validate:"required"`
	PartySize       int    `json:"partySize" validate:"min=1,max=20"`
	ContactName     string `json:"contactName,omitempty"`
	ContactPhone    string `json:"contactPhone,omitempty"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// AvailabilityVerdict is the outcome of an availability check. SuggestedSlots
// is populated only on a positive verdict and holds the requested slot.
type AvailabilityVerdict struct {
	Available      bool     `json:"available"`
	Message        string   `json:"message"`
	SuggestedSlots []string `json:"suggestedSlots,omitempty"`
}

// ReservationOutcome is the outcome of a reservation attempt.
// ConfirmationCode is present iff Success.
type ReservationOutcome struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	ConfirmationCode string `json:"confirmationCode,omitempty"`
}

const (
	minPartySize = 1
	maxPartySize = 20

	// availability buckets out of 100; the base threshold drops for large
	// parties and off-hours requests.
	baseThreshold     = 80
	largePartyPenalty = 35
	offHoursPenalty   = 25

	largePartySize = 8
	openingHour    = 11
	closingHour    = 22
)

// accepted dateTime layouts; LLM callers emit all of these.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Engine makes booking decisions. It is stateless and safe for concurrent
// use; the clock is injectable for tests.
type Engine struct {
	validate *validator.Validate
	now      func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithClock overrides the time source used by the past-date check.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckAvailability validates the request and derives a deterministic
// availability verdict for the restaurant. A nil restaurant is a caller bug
// and panics; every business-level failure is returned as a structured
// negative verdict, never an error.
func (e *Engine) CheckAvailability(restaurant *catalog.RestaurantRecord, dateTime string, partySize int) AvailabilityVerdict {
	if restaurant == nil {
		panic("booking: nil restaurant passed to CheckAvailability")
	}

	slot, err := parseDateTime(dateTime)
	if err != nil {
		return AvailabilityVerdict{
			Message: fmt.Sprintf("The requested date/time %q is not valid. Use the YYYY-MM-DDTHH:MM format.", dateTime),
		}
	}
	if !slot.After(e.now()) {
		return AvailabilityVerdict{
			Message: "Reservations cannot be made for past dates. Please choose a future date and time.",
		}
	}
	if partySize < minPartySize || partySize > maxPartySize {
		return AvailabilityVerdict{
			Message: fmt.Sprintf("Party size must be between %d and %d guests.", minPartySize, maxPartySize),
		}
	}
	if restaurant.Reservable != nil && !*restaurant.Reservable {
		return AvailabilityVerdict{
			Message: fmt.Sprintf("%s does not accept reservations.", restaurant.Name),
		}
	}

	normalized := normalizeSlot(slot)
	if !slotAvailable(restaurant.PlaceID, normalized, partySize, slot.Hour()) {
		return AvailabilityVerdict{
			Message: fmt.Sprintf("No table for %d guests is available at %s. Please try a different time.",
				partySize, normalized),
		}
	}

	return AvailabilityVerdict{
		Available: true,
		Message: fmt.Sprintf("A table for %d guests is available at %s on %s.",
			partySize, slot.Format("15:04"), slot.Format("2006-01-02")),
		SuggestedSlots: []string{normalized},
	}
}

// MakeReservation validates contact details, checks availability and, on a
// positive verdict, confirms the reservation with an idempotent confirmation
// code: repeated identical requests produce the same code, not a new booking.
func (e *Engine) MakeReservation(restaurant *catalog.RestaurantRecord, req *ReservationRequest) ReservationOutcome {
	if restaurant == nil || req == nil {
		panic("booking: nil argument passed to MakeReservation")
	}

	// Contact validation happens before the availability lookup: malformed
	// contact data is cheaper to reject than a capacity check the caller
	// cannot use.
	if missing := missingContactFields(req); len(missing) > 0 {
		return ReservationOutcome{
			Message: fmt.Sprintf("Missing required contact details: %s.", strings.Join(missing, ", ")),
		}
	}
	if err := e.validate.Struct(req); err != nil {
		return ReservationOutcome{
			Message: validationMessage(err),
		}
	}

	verdict := e.CheckAvailability(restaurant, req.DateTime, req.PartySize)
	if !verdict.Available {
		return ReservationOutcome{
			Message: verdict.Message,
		}
	}

	slot, _ := parseDateTime(req.DateTime)
	code := ConfirmationCode(req.PlaceID, normalizeSlot(slot), req.PartySize, req.ContactPhone)
	return ReservationOutcome{
		Success: true,
		Message: fmt.Sprintf("Reservation confirmed at %s for %d guests on %s at %s.",
			restaurant.Name, req.PartySize, slot.Format("2006-01-02"), slot.Format("15:04")),
		ConfirmationCode: code,
	}
}

// ConfirmationCode derives a stable confirmation code from the reservation
// key fields, so retried identical requests are idempotent.
func ConfirmationCode(placeID, normalizedSlot string, partySize int, contactPhone string) string {
	h := xxhash.Sum64String(placeID + "|" + normalizedSlot + "|" + strconv.Itoa(partySize) + "|" + contactPhone)
	return "RES-" + strings.ToUpper(strconv.FormatUint(h, 36))
}

// slotAvailable is the synthetic inventory oracle: a stable hash of the
// reservation triple mapped onto a boolean, biased against very large
// parties and unusual hours.
func slotAvailable(placeID, normalizedSlot string, partySize, hour int) bool {
	threshold := baseThreshold
	if partySize > largePartySize {
		threshold -= largePartyPenalty
	}
	if hour < openingHour || hour >= closingHour {
		threshold -= offHoursPenalty
	}

	h := xxhash.Sum64String(placeID + "|" + normalizedSlot + "|" + strconv.Itoa(partySize))
	return h%100 < uint64(threshold)
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// normalizeSlot renders a slot in a single canonical layout so equivalent
// inputs hash identically.
func normalizeSlot(t time.Time) string {
	return t.Format("2006-01-02T15:04")
}

func missingContactFields(req *ReservationRequest) []string {
	var missing []string
	if strings.TrimSpace(req.ContactName) == "" {
		missing = append(missing, "contactName")
	}
	if strings.TrimSpace(req.ContactPhone) == "" {
		missing = append(missing, "contactPhone")
	}
	return missing
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Field() {
		case "PartySize":
			return fmt.Sprintf("Party size must be between %d and %d guests.", minPartySize, maxPartySize)
		case "DateTime":
			return "A reservation date/time is required."
		case "PlaceID":
			return "A restaurant placeId is required."
		}
	}
	return "Invalid reservation request."
}
