package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brickfolio/localsync/models"
)

// Init builds the chi router for the reference remote.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(RequestLogging(h.logger))

	router.Post("/api/sync/push", h.push)
	router.Post("/api/sync/beacon", h.beacon)

	return router
}

func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With().Str("func", "Handler.push").Logger()

	var req models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.validate(req); err != nil {
		log.Err(err).Msg("batch failed validation")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	failed := h.apply(req.Operations)

	writeJSON(w, models.PushResponse{
		Success:   true,
		Processed: len(req.Operations) - len(failed),
		Failed:    failed,
	}, http.StatusOK)
}

// beacon accepts the same body as push but never reports back: the sender
// has already gone away. Operations are applied so a redelivered batch on
// the confirmed path converges instead of duplicating.
func (h *Handler) beacon(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With().Str("func", "Handler.beacon").Logger()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	var req models.PushRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Err(err).Msg("discarding malformed beacon body")
		w.WriteHeader(http.StatusAccepted)
		return
	}

	h.apply(req.Operations)

	h.mu.Lock()
	h.beacons++
	h.mu.Unlock()

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) validate(req models.PushRequest) error {
	if req.Length != len(req.Operations) {
		return errLengthMismatch
	}

	if h.hashKey != "" && req.Hash != "" {
		payload, err := json.Marshal(req.Operations)
		if err != nil {
			return err
		}
		mac := hmac.New(sha256.New, []byte(h.hashKey))
		mac.Write(payload)
		if !hmac.Equal([]byte(req.Hash), []byte(hex.EncodeToString(mac.Sum(nil)))) {
			return errHashMismatch
		}
	}

	return nil
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
