package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/De27vin/M210-inventory-app/internal/auth"
	"github.com/De27vin/M210-inventory-app/internal/middleware"
	"github.com/De27vin/M210-inventory-app/internal/models"
	"github.com/De27vin/M210-inventory-app/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	Store   store.Inventory
	Auth    auth.Authenticator
	Tokens  *auth.TokenManager
	Version string
	Commit  string
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// internalError logs the underlying failure with full detail and returns
// an opaque message. Driver and LDAP error text never reaches the client.
func internalError(w http.ResponseWriter, action string, err error) {
	slog.Error(action, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// Health handles GET /healthz — no auth required.
// Returns 503 if the backing store is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.Version,
		"commit":  h.Commit,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /login. It verifies the credentials against the
// directory and issues a bearer token on success.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4*1024)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if !h.Auth.Authenticate(req.Username, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.Tokens.Issue(req.Username)
	if err != nil {
		internalError(w, "failed to issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

// ListInventory handles GET /inventory.
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.List(r.Context())
	if err != nil {
		internalError(w, "failed to list inventory", err)
		return
	}
	if items == nil {
		items = []models.Summary{}
	}
	slog.Debug("inventory listed", "user", middleware.Identity(r.Context()), "count", len(items))
	writeJSON(w, http.StatusOK, items)
}

// CreateInventory handles POST /inventory. All descriptive fields are
// required; the store assigns the id.
func (h *Handler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	var req models.Record
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	id, err := h.Store.Create(r.Context(), &req)
	if err != nil {
		internalError(w, "failed to create inventory entry", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Inventory added successfully",
		"id":      id,
	})
}

// GetInventory handles GET /inventory/{id}. Returns the list projection
// for a single record.
func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "server not found")
		return
	}
	if err != nil {
		internalError(w, "failed to get inventory entry", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteInventory handles DELETE /inventory/{id} and its duplicate route
// DELETE /inventory/delete/{id}. A missing id is a 404, not a 500.
func (h *Handler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.Store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "server not found")
		return
	}
	if err != nil {
		internalError(w, "failed to delete inventory entry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Inventory entry " + strconv.FormatInt(deleted, 10) + " deleted successfully",
	})
}

// UpdateInventory handles PATCH /inventory/modify/{id}. The body is a
// partial field map; field names are validated against the column
// allow-list before any SQL is built.
func (h *Handler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	updated, err := h.Store.Update(r.Context(), id, fields)
	switch {
	case errors.Is(err, store.ErrNoFields):
		writeError(w, http.StatusBadRequest, "no fields to update")
	case errors.Is(err, store.ErrUnknownColumn):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "server not found")
	case err != nil:
		internalError(w, "failed to update inventory entry", err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Inventory entry " + strconv.FormatInt(updated, 10) + " updated successfully",
		})
	}
}
