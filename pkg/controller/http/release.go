package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/releasecheck/pkg/domain/model"
	"github.com/m-mizutani/releasecheck/pkg/domain/types"
)

// ReleaseHandler serves release lookups of a single repository
type ReleaseHandler struct {
	releaseUC interfaces.ReleaseUseCase
}

// NewReleaseHandler creates a new ReleaseHandler
func NewReleaseHandler(releaseUC interfaces.ReleaseUseCase) *ReleaseHandler {
	return &ReleaseHandler{
		releaseUC: releaseUC,
	}
}

func repositoryParam(r *http.Request) string {
	return chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo")
}

// ListReleases returns every release of the repository
func (h *ReleaseHandler) ListReleases(w http.ResponseWriter, r *http.Request) {
	repository := repositoryParam(r)

	releases, err := h.releaseUC.ListReleases(r.Context(), repository)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if releases == nil {
		releases = []*model.Release{}
	}

	writeJSON(w, r, http.StatusOK, releases)
}

// ListVersions returns the tag names of every release of the repository
func (h *ReleaseHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	repository := repositoryParam(r)

	versions, err := h.releaseUC.ListVersions(r.Context(), repository)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, versions)
}

// LatestVersion returns the highest semantic version of the repository
func (h *ReleaseHandler) LatestVersion(w http.ResponseWriter, r *http.Request) {
	repository := repositoryParam(r)

	var filter model.ReleaseFilter
	var err error
	if filter.ExcludeDrafts, err = boolQuery(r, "exclude_drafts"); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	if filter.ExcludePrereleases, err = boolQuery(r, "exclude_prereleases"); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}

	version, err := h.releaseUC.LatestVersion(r.Context(), repository, filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, &model.LatestVersion{
		Repository: repository,
		Version:    version,
	})
}

func boolQuery(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, goerr.Wrap(err, "invalid boolean query parameter", goerr.V("key", key), goerr.V("value", raw))
	}
	return v, nil
}

func (h *ReleaseHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	logger := ctxlog.From(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to look up releases", "error", err, "repository", repositoryParam(r))
	} else {
		logger.Info("Release lookup returned no result", "error", err, "repository", repositoryParam(r))
	}
	writeError(w, r, err, status)
}

func statusOf(err error) int {
	var authErr *types.AuthenticationError
	var httpErr *types.HTTPResponseError

	switch {
	case errors.Is(err, types.ErrRepositoryNotFound), errors.Is(err, types.ErrNoReleases):
		return http.StatusNotFound
	case errors.As(err, &authErr), errors.As(err, &httpErr):
		return http.StatusBadGateway
	case errors.Is(err, types.ErrTransport), errors.Is(err, types.ErrDecodeBody),
		errors.Is(err, types.ErrHeaderDecode), errors.Is(err, types.ErrMalformedPagination):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
