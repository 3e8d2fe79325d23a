package restaurants

import (
	"context"
	"reflect"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"

	"github.com/effective-security/dinefind/pkg/booking"
	"github.com/effective-security/dinefind/pkg/catalog"
	"github.com/effective-security/dinefind/pkg/llmutils"
	"github.com/effective-security/dinefind/pkg/metricskey"
	"github.com/effective-security/dinefind/pkg/schema"
	"github.com/effective-security/dinefind/pkg/session"
	"github.com/effective-security/dinefind/store"
	"github.com/effective-security/dinefind/tools"
)

const ReserveToolName = "make_reservation"

// ReserveRequest represents the reservation tool input.
type ReserveRequest struct {
	PlaceID         string `json:"placeId" jsonschema:"title=Place ID,description=The placeId of the restaurant."`
	DateTime        string `json:"dateTime" jsonschema:"title=Date and Time,description=The requested slot in YYYY-MM-DDTHH:MM format."`
	PartySize       int    `json:"partySize" jsonschema:"title=Party Size,description=Number of guests between 1 and 20."`
	ContactName     string `json:"contactName" jsonschema:"title=Contact Name,description=Name the reservation is held under."`
	ContactPhone    string `json:"contactPhone" jsonschema:"title=Contact Phone,description=Phone number for the reservation."`
	SpecialRequests string `json:"specialRequests,omitempty" jsonschema:"title=Special Requests,description=Optional notes such as a window seat or allergies."`
	Locale          string `json:"locale,omitempty" jsonschema:"title=Locale,description=BCP-47 language tag for localized results."`
}

// ReserveTool books a table through the booking decision engine and records
// confirmed reservations in the session store.
type ReserveTool struct {
	catalog    catalog.PlaceCatalog
	engine     *booking.Engine
	store      store.ReservationStore
	funcParams any

	// defaultSession backs transports that carry a single conversation per
	// process (stdio) and supply no session of their own.
	defaultSession session.Context
}

var (
	_ tools.Tool[ReserveRequest, booking.ReservationOutcome] = (*ReserveTool)(nil)
	_ tools.MCPTool[ReserveRequest]                          = (*ReserveTool)(nil)
)

func NewReserveTool(cat catalog.PlaceCatalog, engine *booking.Engine) (*ReserveTool, error) {
	sc, err := schema.New(reflect.TypeOf(ReserveRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &ReserveTool{
		catalog:        cat,
		engine:         engine,
		funcParams:     sc.Parameters,
		defaultSession: session.NewContext(""),
	}, nil
}

// WithStore sets the session reservation store.
func (t *ReserveTool) WithStore(st store.ReservationStore) *ReserveTool {
	t.store = st
	return t
}

func (t *ReserveTool) Name() string {
	return ReserveToolName
}

func (t *ReserveTool) Description() string {
	return "Makes a restaurant reservation. Check availability first; repeated identical requests return the same confirmation code."
}

func (t *ReserveTool) Parameters() any {
	return t.funcParams
}

func (t *ReserveTool) Run(ctx context.Context, req *ReserveRequest) (*booking.ReservationOutcome, error) {
	if req.PlaceID == "" {
		return nil, errors.New("invalid request: placeId is required")
	}
	rec, err := t.catalog.GetDetails(ctx, req.PlaceID, req.Locale)
	if err != nil {
		metricskey.StatsCatalogErrors.IncrCounter(1, ReserveToolName)
		return nil, errors.WithMessage(err, "restaurant details lookup failed")
	}
	if rec == nil {
		return nil, ErrRestaurantNotFound
	}

	outcome := t.engine.MakeReservation(rec, &booking.ReservationRequest{
		PlaceID:         req.PlaceID,
		DateTime:        req.DateTime,
		PartySize:       req.PartySize,
		ContactName:     req.ContactName,
		ContactPhone:    req.ContactPhone,
		SpecialRequests: req.SpecialRequests,
	})
	if !outcome.Success {
		metricskey.StatsReservationsDeclined.IncrCounter(1, ReserveToolName)
		return &outcome, nil
	}
	metricskey.StatsReservationsConfirmed.IncrCounter(1, ReserveToolName)

	if t.store != nil {
		if session.FromContext(ctx) == nil {
			ctx = session.WithContext(ctx, t.defaultSession)
		}
		err = t.store.Add(ctx, store.Reservation{
			PlaceID:          rec.PlaceID,
			RestaurantName:   rec.Name,
			DateTime:         req.DateTime,
			PartySize:        req.PartySize,
			ContactName:      req.ContactName,
			ContactPhone:     req.ContactPhone,
			SpecialRequests:  req.SpecialRequests,
			ConfirmationCode: outcome.ConfirmationCode,
			CreatedAt:        time.Now().UTC(),
		})
		if err != nil {
			// the reservation outcome stands; the session record is best effort
			logger.ContextKV(ctx, xlog.WARNING, "reason", "failed to record reservation", "err", err.Error())
		}
	}
	return &outcome, nil
}

func (t *ReserveTool) Call(ctx context.Context, input string) (string, error) {
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, ReserveToolName)

	req, err := unmarshalInput[ReserveRequest](input)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, ReserveToolName)
		return "", err
	}
	out, err := t.Run(ctx, req)
	if errors.Is(err, ErrRestaurantNotFound) {
		metricskey.StatsToolCallsSucceeded.IncrCounter(1, ReserveToolName)
		return NotFoundText, nil
	}
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, ReserveToolName)
		return "", err
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, ReserveToolName)
	return llmutils.ToJSON(out), nil
}

func (t *ReserveTool) RunMCP(ctx context.Context, req *ReserveRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(ctx, req)
	if errors.Is(err, ErrRestaurantNotFound) {
		return mcp.NewToolResponse(mcp.NewTextContent(NotFoundText)), nil
	}
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

func (t *ReserveTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(),
		func(ctx context.Context, req ReserveRequest) (*mcp.ToolResponse, error) {
			return t.RunMCP(ctx, &req)
		})
}
