package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/songsim/internal/domain/filter"
	"github.com/okian/songsim/internal/domain/types"
)

// RecommendDependencies defines the operations behind GET /recommend.
type RecommendDependencies interface {
	RecommendFor(ctx context.Context, ident string, k int, filters filter.Criteria) (types.RecommendResponse, error)
	DefaultK() int
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps RecommendDependencies
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps RecommendDependencies) *RecommendHandler {
	return &RecommendHandler{deps: deps}
}

// HandleRecommend handles GET /recommend?song=&k=&popularity=&genre=.
// k defaults to the configured count; filters default to none.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	song := strings.TrimSpace(q.Get("song"))
	if song == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: song is required", ErrBadRequest))
		return
	}

	k := h.deps.DefaultK()
	if raw := q.Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: k must be an integer", ErrBadRequest))
			return
		}
		k = parsed
	}

	var filters filter.Criteria
	var err error
	if filters.Popularity, err = filter.ParsePopularity(q.Get("popularity")); err != nil {
		writeServiceError(w, err)
		return
	}
	if filters.Genre, err = filter.ParseGenre(q.Get("genre")); err != nil {
		writeServiceError(w, err)
		return
	}

	resp, err := h.deps.RecommendFor(r.Context(), song, k, filters)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if resp.Results == nil {
		resp.Results = []types.Recommendation{}
	}
	writeJSON(w, http.StatusOK, resp)
}
