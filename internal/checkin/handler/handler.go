package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"spotter/internal/checkin/models"
	"spotter/internal/checkin/service"
	"spotter/internal/geo"
	ratelimitmodels "spotter/internal/ratelimit/models"
	id "spotter/pkg/domain"
	dErrors "spotter/pkg/domain-errors"
	"spotter/pkg/platform/httputil"
	"spotter/pkg/platform/middleware/request"
	"spotter/pkg/requestcontext"
)

const (
	defaultSource  = "api"
	maxSourceBytes = 32
)

// Service runs one check-in attempt.
type Service interface {
	Checkin(ctx context.Context, userID id.UserID, venueID id.VenueID, coord geo.Coordinate, opts service.Options) (*models.Result, error)
}

// Limiter throttles attempts per user before the core runs.
type Limiter interface {
	AllowCheckin(ctx context.Context, userID id.UserID) (*ratelimitmodels.Result, error)
}

type Handler struct {
	checkins Service
	limiter  Limiter
	logger   *slog.Logger
}

// New builds the handler. A nil limiter disables throttling.
func New(checkins Service, limiter Limiter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{checkins: checkins, limiter: limiter, logger: logger}
}

// Register mounts check-in routes. Callers must wrap r with RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/checkins", h.handleCheckin)
}

type checkinRequest struct {
	VenueID        string     `json:"venue_id"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	AccuracyMeters *float64   `json:"accuracy_meters,omitempty"`
	CapturedAt     *time.Time `json:"captured_at,omitempty"`
	Source         string     `json:"source,omitempty"`

	venueID id.VenueID
}

func (r *checkinRequest) Validate() error {
	venueID, err := id.ParseVenueID(strings.TrimSpace(r.VenueID))
	if err != nil || venueID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "venue_id must be a UUID")
	}
	r.venueID = venueID

	if r.Latitude == nil || r.Longitude == nil {
		return dErrors.New(dErrors.CodeValidation, "latitude and longitude are required")
	}
	if !geo.At(*r.Latitude, *r.Longitude).InRange() {
		return dErrors.New(dErrors.CodeValidation, "coordinates out of range")
	}
	if r.AccuracyMeters != nil && *r.AccuracyMeters < 0 {
		return dErrors.New(dErrors.CodeValidation, "accuracy_meters must not be negative")
	}

	r.Source = strings.TrimSpace(r.Source)
	if r.Source == "" {
		r.Source = defaultSource
	}
	if len(r.Source) > maxSourceBytes {
		return dErrors.New(dErrors.CodeValidation, "source is too long")
	}
	return nil
}

func (r *checkinRequest) coordinate() geo.Coordinate {
	return geo.Coordinate{
		Latitude:       *r.Latitude,
		Longitude:      *r.Longitude,
		AccuracyMeters: r.AccuracyMeters,
		CapturedAt:     r.CapturedAt,
	}
}

func (h *Handler) handleCheckin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "user id missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	if !h.allow(ctx, w, userID, requestID) {
		return
	}

	req, ok := httputil.DecodeAndPrepare[checkinRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.checkins.Checkin(ctx, userID, req.venueID, req.coordinate(), service.Options{Source: req.Source})
	if err != nil {
		h.logger.ErrorContext(ctx, "check-in failed",
			"request_id", requestID,
			"user_id", userID.String(),
			"venue_id", req.venueID.String(),
			"error", err,
		)
		if result != nil {
			httputil.WriteJSON(w, http.StatusInternalServerError, result)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "check-in processed",
		"request_id", requestID,
		"user_id", userID.String(),
		"venue_id", req.venueID.String(),
		"checkin_id", result.CheckinID.String(),
		"success", result.Success,
		"error_code", string(result.Error),
	)
	httputil.WriteJSON(w, statusFor(result), result)
}

// allow applies the attempt limit. Limiter errors let the attempt through.
func (h *Handler) allow(ctx context.Context, w http.ResponseWriter, userID id.UserID, requestID string) bool {
	if h.limiter == nil {
		return true
	}
	res, err := h.limiter.AllowCheckin(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "rate limit check failed",
			"request_id", requestID,
			"user_id", userID.String(),
			"error", err,
		)
		return true
	}

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	if res.Allowed {
		return true
	}

	h.logger.WarnContext(ctx, "check-in rate limited",
		"request_id", requestID,
		"user_id", userID.String(),
		"retry_after", res.RetryAfter,
	)
	w.Header().Set("Retry-After", strconv.Itoa(max(res.RetryAfter, 1)))
	httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many check-in attempts, slow down"))
	return false
}

func statusFor(result *models.Result) int {
	if result.Success {
		return http.StatusCreated
	}
	switch result.Error {
	case models.ErrVenueNotFound:
		return http.StatusNotFound
	case models.ErrPersistence:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}
