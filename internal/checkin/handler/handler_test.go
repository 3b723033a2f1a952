package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	awardadapters "spotter/internal/award/adapters"
	awardservice "spotter/internal/award/service"
	awardstore "spotter/internal/award/store"
	"spotter/internal/checkin/models"
	"spotter/internal/checkin/service"
	checkinstore "spotter/internal/checkin/store"
	"spotter/internal/geo"
	ratelimitmodels "spotter/internal/ratelimit/models"
	ratelimitservice "spotter/internal/ratelimit/service"
	"spotter/internal/ratelimit/store/bucket"
	venuemodels "spotter/internal/venue/models"
	venuestore "spotter/internal/venue/store"
	id "spotter/pkg/domain"
	dErrors "spotter/pkg/domain-errors"
	"spotter/pkg/testutil"
)

const path = "/v1/checkins"

// HandlerSuite drives the handler through real in-memory services; the HTTP
// layer is what is under test.
type HandlerSuite struct {
	suite.Suite
	router   http.Handler
	checkins *checkinstore.InMemoryStore
	userID   id.UserID
	venueID  id.VenueID
	bareID   id.VenueID
	now      time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	lat, lon := 40.712776, -74.005974
	s.venueID = id.VenueID(uuid.New())
	s.bareID = id.VenueID(uuid.New())
	s.userID = id.UserID(uuid.New())
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	venues := venuestore.NewInMemory(
		venuemodels.Venue{ID: s.venueID, Name: "City Hall", Latitude: &lat, Longitude: &lon, Rarity: venuemodels.RarityLegendary},
		venuemodels.Venue{ID: s.bareID, Name: "Pop-up"},
	)
	s.checkins = checkinstore.NewInMemory()
	awards, err := awardservice.New(awardstore.NewInMemory(), s.checkins, awardadapters.NewVenueRarityAdapter(venues))
	s.Require().NoError(err)
	svc, err := service.New(venues, s.checkins, awards)
	s.Require().NoError(err)
	limiter, err := ratelimitservice.New(bucket.NewInMemory(), 3)
	s.Require().NoError(err)

	s.router = newRouter(svc, limiter)
}

func newRouter(svc Service, limiter Limiter) http.Handler {
	r := chi.NewRouter()
	New(svc, limiter, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func (s *HandlerSuite) post(body any) *http.Request {
	req := testutil.JSONRequest(s.T(), http.MethodPost, path, body)
	return testutil.At(testutil.AsUser(req, s.userID), s.now)
}

func (s *HandlerSuite) body(venueID id.VenueID, lat, lon, accuracy float64) map[string]any {
	return map[string]any{
		"venue_id":        venueID.String(),
		"latitude":        lat,
		"longitude":       lon,
		"accuracy_meters": accuracy,
	}
}

func (s *HandlerSuite) TestSuccess() {
	rr := testutil.Serve(s.router, s.post(s.body(s.venueID, 40.713181, -74.005974, 6)))

	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	resp := testutil.Decode[map[string]any](s.T(), rr)
	s.Equal(true, resp["success"])
	s.NotEmpty(resp["checkin_id"])
	badges, ok := resp["badges_earned"].([]any)
	s.Require().True(ok)
	var types []string
	for _, b := range badges {
		types = append(types, b.(map[string]any)["badge_type"].(string))
	}
	s.ElementsMatch([]string{"first_checkin", "venue_legendary"}, types)
	s.Equal("3", rr.Header().Get("X-RateLimit-Limit"))

	recs := s.checkins.Checkins()
	s.Require().Len(recs, 1)
	s.Equal("api", recs[0].Source)
}

func (s *HandlerSuite) TestVerificationDenied() {
	rr := testutil.Serve(s.router, s.post(s.body(s.venueID, 40.713586, -74.005974, 25)))

	s.Require().Equal(http.StatusUnprocessableEntity, rr.Code)
	resp := testutil.Decode[map[string]any](s.T(), rr)
	s.Equal(false, resp["success"])
	s.Equal(string(models.ErrLocationVerificationFailed), resp["error"])
	s.Equal("you are 90 m from the venue (max 100 m); GPS accuracy 25 m", resp["message"])
	s.NotNil(resp["verdict"])
	s.Equal(true, resp["high_accuracy_requested"])
}

func (s *HandlerSuite) TestSpoofDeniedIsGeneric() {
	rr := testutil.Serve(s.router, s.post(s.body(s.venueID, 40.713, -74.005974, 0.3)))

	s.Require().Equal(http.StatusUnprocessableEntity, rr.Code)
	resp := testutil.Decode[map[string]any](s.T(), rr)
	s.Equal(models.SpoofDenialMessage, resp["message"])
	s.Contains(resp, "verdict")
	s.NotContains(rr.Body.String(), "precision")
	s.NotContains(rr.Body.String(), "reasons")
}

func (s *HandlerSuite) TestVenueErrors() {
	s.Run("unknown venue", func() {
		rr := testutil.Serve(s.router, s.post(s.body(id.VenueID(uuid.New()), 40.713181, -74.005974, 6)))
		s.Equal(http.StatusNotFound, rr.Code)
		s.Equal(string(models.ErrVenueNotFound), testutil.Decode[map[string]any](s.T(), rr)["error"])
	})
	s.Run("venue without location", func() {
		rr := testutil.Serve(s.router, s.post(s.body(s.bareID, 40.713181, -74.005974, 6)))
		s.Equal(http.StatusUnprocessableEntity, rr.Code)
		s.Equal(string(models.ErrVenueLocationUnavailable), testutil.Decode[map[string]any](s.T(), rr)["error"])
	})
}

func (s *HandlerSuite) TestInvalidRequests() {
	cases := []struct {
		name string
		body any
	}{
		{"malformed json", "{not json"},
		{"unknown field", map[string]any{"venue_id": s.venueID.String(), "latitude": 1.5, "longitude": 2.5, "speed": 3}},
		{"bad venue id", map[string]any{"venue_id": "nope", "latitude": 1.5, "longitude": 2.5}},
		{"missing longitude", map[string]any{"venue_id": s.venueID.String(), "latitude": 1.5}},
		{"latitude out of range", s.body(s.venueID, 91, 2.5, 5)},
		{"negative accuracy", s.body(s.venueID, 40.713181, -74.005974, -1)},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rr := testutil.Serve(newRouter(stubService{}, nil), s.post(tc.body))
			s.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func (s *HandlerSuite) TestUnauthenticated() {
	req := testutil.JSONRequest(s.T(), http.MethodPost, path, s.body(s.venueID, 40.713181, -74.005974, 6))
	rr := testutil.Serve(s.router, req)
	testutil.AssertError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
}

func (s *HandlerSuite) TestRateLimited() {
	for i := 0; i < 3; i++ {
		rr := testutil.Serve(s.router, s.post(s.body(s.venueID, 40.713586, -74.005974, 25)))
		s.Require().NotEqual(http.StatusTooManyRequests, rr.Code)
	}

	rr := testutil.Serve(s.router, s.post(s.body(s.venueID, 40.713181, -74.005974, 6)))
	testutil.AssertError(s.T(), rr, http.StatusTooManyRequests, string(dErrors.CodeRateLimited))
	retry, err := strconv.Atoi(rr.Header().Get("Retry-After"))
	s.Require().NoError(err)
	s.Positive(retry)
	s.Equal("0", rr.Header().Get("X-RateLimit-Remaining"))
	s.Len(s.checkins.Checkins(), 3, "throttled attempt never reaches the core")
}

type stubService struct {
	result *models.Result
	err    error
}

func (s stubService) Checkin(context.Context, id.UserID, id.VenueID, geo.Coordinate, service.Options) (*models.Result, error) {
	return s.result, s.err
}

type failingLimiter struct{}

func (failingLimiter) AllowCheckin(context.Context, id.UserID) (*ratelimitmodels.Result, error) {
	return nil, errors.New("redis down")
}

func TestHandleCheckin_ServiceFailures(t *testing.T) {
	venueID := id.VenueID(uuid.New())
	body := map[string]any{"venue_id": venueID.String(), "latitude": 40.713181, "longitude": -74.005974}
	send := func(t *testing.T) *http.Request {
		return testutil.AsUser(testutil.JSONRequest(t, http.MethodPost, path, body), id.UserID(uuid.New()))
	}

	t.Run("persistence error returns result with 500", func(t *testing.T) {
		svc := stubService{
			result: models.Denied(models.ErrPersistence, "check-in could not be saved, please retry"),
			err:    dErrors.Wrap(errors.New("conn reset"), dErrors.CodeInternal, "failed to persist check-in"),
		}
		rr := testutil.Serve(newRouter(svc, nil), send(t))
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := testutil.Decode[map[string]any](t, rr)
		assert.Equal(t, string(models.ErrPersistence), resp["error"])
		assert.NotContains(t, rr.Body.String(), "conn reset")
	})

	t.Run("internal error without result", func(t *testing.T) {
		svc := stubService{err: dErrors.Wrap(errors.New("boom"), dErrors.CodeInternal, "failed to look up venue")}
		rr := testutil.Serve(newRouter(svc, nil), send(t))
		testutil.AssertError(t, rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
	})

	t.Run("limiter error lets the attempt through", func(t *testing.T) {
		svc := stubService{result: &models.Result{Success: true, CheckinID: id.NewCheckinID()}}
		rr := testutil.Serve(newRouter(svc, failingLimiter{}), send(t))
		assert.Equal(t, http.StatusCreated, rr.Code)
	})
}
