package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/echoplay/internal/gateway"
	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

// maxBodyBytes caps request bodies; a full liked list is well under this.
const maxBodyBytes = 4 << 20

// DocumentHandler serves a [gateway.Gateway] over HTTP. [gateway.Remote] is its client.
type DocumentHandler struct {
	gw     gateway.Gateway
	logger *log.Logger
	mux    *http.ServeMux
	routes []string
}

// NewDocumentHandler creates a handler backed by gw.
func NewDocumentHandler(gw gateway.Gateway, logger *log.Logger) *DocumentHandler {
	if logger == nil {
		logger = log.Default()
	}
	h := &DocumentHandler{gw: gw, logger: logger, mux: http.NewServeMux()}

	h.route("GET /health", h.health)
	h.route("GET /api/users/{uid}/liked", h.fetchLiked)
	h.route("PUT /api/users/{uid}/liked", h.saveLiked)
	h.route("GET /api/users/{uid}/recent", h.fetchRecent)
	h.route("PUT /api/users/{uid}/recent", h.saveRecent)
	h.route("DELETE /api/users/{uid}/recent/{videoId}", h.removeRecent)
	h.route("GET /api/users/{uid}/playlists", h.listPlaylists)
	h.route("POST /api/playlists", h.createPlaylist)
	h.route("PATCH /api/playlists/{id}", h.updatePlaylist)
	h.route("DELETE /api/playlists/{id}", h.deletePlaylist)
	h.route("POST /api/playlists/{id}/songs", h.addSong)
	h.route("DELETE /api/playlists/{id}/songs/{videoId}", h.removeSong)
	h.route("POST /api/shares", h.createShare)
	h.route("GET /api/shares/{id}", h.getShare)
	return h
}

func (h *DocumentHandler) route(pattern string, fn http.HandlerFunc) {
	h.routes = append(h.routes, pattern)
	h.mux.HandleFunc(pattern, fn)
}

func (h *DocumentHandler) Routes() []string {
	return h.routes
}

func (h *DocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *DocumentHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DocumentHandler) fetchLiked(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.gw.FetchLikedSongs(r.Context(), r.PathValue("uid"))
	h.respond(w, r, http.StatusOK, tracks, err)
}

func (h *DocumentHandler) saveLiked(w http.ResponseWriter, r *http.Request) {
	var tracks []models.Track
	if !h.decode(w, r, &tracks) {
		return
	}
	h.respond(w, r, http.StatusNoContent, nil, h.gw.SaveLikedSongs(r.Context(), r.PathValue("uid"), tracks))
}

func (h *DocumentHandler) fetchRecent(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.gw.FetchRecentlyPlayed(r.Context(), r.PathValue("uid"))
	h.respond(w, r, http.StatusOK, tracks, err)
}

func (h *DocumentHandler) saveRecent(w http.ResponseWriter, r *http.Request) {
	var tracks []models.Track
	if !h.decode(w, r, &tracks) {
		return
	}
	h.respond(w, r, http.StatusNoContent, nil, h.gw.SaveRecentlyPlayed(r.Context(), r.PathValue("uid"), tracks))
}

func (h *DocumentHandler) removeRecent(w http.ResponseWriter, r *http.Request) {
	err := h.gw.RemoveRecentlyPlayed(r.Context(), r.PathValue("uid"), r.PathValue("videoId"))
	h.respond(w, r, http.StatusNoContent, nil, err)
}

func (h *DocumentHandler) listPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.gw.FetchUserPlaylists(r.Context(), r.PathValue("uid"))
	h.respond(w, r, http.StatusOK, playlists, err)
}

func (h *DocumentHandler) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req gateway.CreatePlaylistRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "userId and name are required")
		return
	}

	id, err := h.gw.CreatePlaylist(r.Context(), req.UserID, req.Name, req.Description)
	h.respond(w, r, http.StatusCreated, gateway.CreatedResponse{ID: id}, err)
}

func (h *DocumentHandler) updatePlaylist(w http.ResponseWriter, r *http.Request) {
	var update models.PlaylistUpdate
	if !h.decode(w, r, &update) {
		return
	}
	h.respond(w, r, http.StatusNoContent, nil, h.gw.UpdatePlaylist(r.Context(), r.PathValue("id"), update))
}

func (h *DocumentHandler) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusNoContent, nil, h.gw.DeletePlaylist(r.Context(), r.PathValue("id")))
}

func (h *DocumentHandler) addSong(w http.ResponseWriter, r *http.Request) {
	var track models.Track
	if !h.decode(w, r, &track) {
		return
	}
	h.respond(w, r, http.StatusNoContent, nil, h.gw.AddSongToPlaylist(r.Context(), r.PathValue("id"), track))
}

func (h *DocumentHandler) removeSong(w http.ResponseWriter, r *http.Request) {
	err := h.gw.RemoveSongFromPlaylist(r.Context(), r.PathValue("id"), r.PathValue("videoId"))
	h.respond(w, r, http.StatusNoContent, nil, err)
}

func (h *DocumentHandler) createShare(w http.ResponseWriter, r *http.Request) {
	var req gateway.CreateShareRequest
	if !h.decode(w, r, &req) {
		return
	}
	id, err := h.gw.CreateShare(r.Context(), req.OwnerID, req.Songs)
	h.respond(w, r, http.StatusCreated, gateway.CreatedResponse{ID: id}, err)
}

func (h *DocumentHandler) getShare(w http.ResponseWriter, r *http.Request) {
	share, err := h.gw.GetShare(r.Context(), r.PathValue("id"))
	h.respond(w, r, http.StatusOK, share, err)
}

func (h *DocumentHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

// respond writes body with status, or maps err to a status code.
func (h *DocumentHandler) respond(w http.ResponseWriter, r *http.Request, status int, body any, err error) {
	if err != nil {
		code := statusFor(err)
		if code >= http.StatusInternalServerError {
			h.logger.Error("document store request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		writeError(w, code, err.Error())
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrPlaylistNotFound), errors.Is(err, shared.ErrShareNotFound), errors.Is(err, shared.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidTrack), errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
