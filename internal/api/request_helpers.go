package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/overlaylab/rater-api/internal/api/shared"
	"github.com/overlaylab/rater-api/internal/domain"
	"github.com/overlaylab/rater-api/internal/service/session"
)

// getRaterIDFromContext extracts the authenticated rater's id from the
// request context, where the auth middleware placed it.
func getRaterIDFromContext(r *http.Request) (int64, bool) {
	raterID, ok := r.Context().Value(shared.RaterIDContextKey).(int64)
	if !ok || raterID == 0 {
		return 0, false
	}
	return raterID, true
}

// getPathID extracts an integer id from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, fmt.Errorf("%s is required", paramName)
	}
	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid format", paramName)
	}
	return id, nil
}

// requireRaterAndTask extracts the rater id from context and the task id
// from the path, writing an error response when either is missing.
func requireRaterAndTask(w http.ResponseWriter, r *http.Request) (raterID, taskID int64, ok bool) {
	raterID, ok = getRaterIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Rater ID not found in request context")
		return 0, 0, false
	}
	taskID, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	return raterID, taskID, true
}

// progressResponse converts domain progress into the wire representation.
// The summary flag controls whether a finished task is labeled
// "Completed!" rather than "100%".
func progressResponse(p domain.Progress, summary bool) ProgressResponse {
	percent, _ := p.Percent()
	return ProgressResponse{
		Total:     p.Total,
		Remaining: p.Remaining,
		Percent:   percent,
		Label:     p.Label(summary),
	}
}

// currentSessions resolves the session manager for the open database,
// writing an error response when none is open.
func currentSessions(w http.ResponseWriter, r *http.Request, provider BackendProvider) (*session.Manager, bool) {
	backend, err := provider.Current()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return backend.Sessions, true
}
