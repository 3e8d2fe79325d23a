// Package store keeps confirmed reservations for the duration of a session.
// It is orchestration-level state: the booking engine itself is stateless and
// does not depend on it.
package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/dinefind", "store")

// ErrNoSession is returned when the context carries no session.
var ErrNoSession = errors.New("invalid session context")

// Reservation is one confirmed reservation as recorded by the orchestration
// layer.
type Reservation struct {
	PlaceID          string    `json:"placeId"`
	RestaurantName   string    `json:"restaurantName"`
	DateTime         string    `json:"dateTime"`
	PartySize        int       `json:"partySize"`
	ContactName      string    `json:"contactName"`
	ContactPhone     string    `json:"contactPhone"`
	SpecialRequests  string    `json:"specialRequests,omitempty"`
	ConfirmationCode string    `json:"confirmationCode"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ReservationStore records reservations per session. Implementations must be
// safe for concurrent use.
type ReservationStore interface {
	Add(ctx context.Context, res Reservation) error
	List(ctx context.Context) ([]Reservation, error)
	Reset(ctx context.Context) error
}
