package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/housefinder/internal/discovery"
	"github.com/hyperifyio/housefinder/internal/extract"
	"github.com/hyperifyio/housefinder/internal/house"
)

const maxBodyBytes = 1 << 20

type handlers struct {
	store      house.Store
	discoverer Discoverer
}

type errorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type insertedHouse struct {
	ID string `json:"id"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorMessage{Code: status, Message: msg})
}

// writeStoreError maps house store errors to statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, house.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, house.ErrInvalidID), errors.Is(err, house.ErrInvalidHouse):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("house store")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (h *handlers) insertHouse(w http.ResponseWriter, r *http.Request) {
	var in house.NewHouse
	if !decodeBody(w, r, &in) {
		return
	}
	id, err := h.store.Insert(r.Context(), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	log.Info().Str("id", id).Str("link", in.Link).Msg("house inserted")
	writeJSON(w, http.StatusOK, insertedHouse{ID: id})
}

func (h *handlers) listHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := h.store.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if houses == nil {
		houses = []house.House{}
	}
	writeJSON(w, http.StatusOK, houses)
}

func (h *handlers) getHouse(w http.ResponseWriter, r *http.Request) {
	hs, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hs)
}

func (h *handlers) updateHouse(w http.ResponseWriter, r *http.Request) {
	var u house.Update
	if !decodeBody(w, r, &u) {
		return
	}
	hs, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hs)
}

func (h *handlers) removeHouse(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) discover(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing url query parameter")
		return
	}
	rec, err := h.discoverer.Discover(r.Context(), url)
	if err != nil {
		var nf *discovery.NotFoundError
		var pe *extract.ParseError
		switch {
		case errors.As(err, &nf):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &pe):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "UNHANDLED_REJECTION")
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
