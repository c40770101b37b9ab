package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/devmatch/internal/app"
	"github.com/okian/devmatch/internal/domain/model"
	"github.com/okian/devmatch/pkg/logger"
)

// Recommender produces recommendations for a project.
type Recommender interface {
	Recommend(ctx context.Context, projectID string) (model.Result, error)
}

// RecommendationsHandler serves GET /projects/{projectId}/recommendations.
type RecommendationsHandler struct {
	deps   Recommender
	logger logger.Logger
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps Recommender, log logger.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps, logger: log}
}

// HandleGetRecommendations returns the top developers for the project in the path.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectId")

	res, err := h.deps.Recommend(r.Context(), projectID)
	if err != nil {
		status, code, public := classify(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "recommendation failed",
				logger.String("project_id", projectID), logger.Error(err))
		}
		writeError(w, status, code, public)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// classify maps service errors to a status, an error code and the error
// exposed to the client. Internal failures never leak their cause.
func classify(err error) (int, string, error) {
	switch {
	case errors.Is(err, service.ErrInvalidProjectID):
		return http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, service.ErrInvalidProjectID)
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", err
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable", ErrUnavailable
	default:
		return http.StatusInternalServerError, "internal_error", ErrInternal
	}
}
