package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spotter/internal/award/models"
	id "spotter/pkg/domain"
	dErrors "spotter/pkg/domain-errors"
	"spotter/pkg/platform/httputil"
	"spotter/pkg/platform/middleware/request"
	"spotter/pkg/requestcontext"
)

// Service is the badge read side used by the HTTP layer.
type Service interface {
	ListBadges(ctx context.Context, userID id.UserID) ([]models.Badge, error)
}

type Handler struct {
	badges Service
	logger *slog.Logger
}

func New(badges Service, logger *slog.Logger) *Handler {
	return &Handler{badges: badges, logger: logger}
}

// Register mounts badge routes. Callers must wrap r with RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/users/me/badges", h.handleListBadges)
}

type listBadgesResponse struct {
	Badges []models.Badge `json:"badges"`
	Count  int            `json:"count"`
}

func (h *Handler) handleListBadges(w http.ResponseWriter, r *http.Request) {
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

	badges, err := h.badges.ListBadges(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list badges",
			"request_id", requestID,
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listBadgesResponse{Badges: badges, Count: len(badges)})
}
