package testutil

import (
	"net/http"
	"time"

	id "spotter/pkg/domain"
	"spotter/pkg/requestcontext"
)

// AsUser attaches userID to the request the way the auth middleware does.
func AsUser(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// At pins the request time.
func At(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
