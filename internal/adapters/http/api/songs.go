package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/songsim/internal/domain/model"
)

// SongDependencies defines the lookup behind GET /songs/{id-or-name}.
type SongDependencies interface {
	Lookup(ctx context.Context, ident string) (int, model.Song, error)
}

// SongHandler handles song lookups.
type SongHandler struct {
	deps SongDependencies
}

// NewSongHandler creates a new song handler.
func NewSongHandler(deps SongDependencies) *SongHandler {
	return &SongHandler{deps: deps}
}

// HandleGetSong handles GET /songs/{id-or-name}. Names may contain escaped
// slashes.
func (h *SongHandler) HandleGetSong(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	escaped := strings.TrimPrefix(r.URL.EscapedPath(), "/songs/")
	ident, err := url.PathUnescape(escaped)
	if err != nil || strings.TrimSpace(ident) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: song id or name is required", ErrBadRequest))
		return
	}

	idx, song, err := h.deps.Lookup(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSongResponse(idx, song))
}
