package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrgen/qrgen/store"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	var (
		gens []store.Generation
		err  error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		gens, err = s.History.SearchGenerations(q, limit)
	} else {
		gens, err = s.History.ListGenerations(limit, offset)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if gens == nil {
		gens = []store.Generation{}
	}

	writeJSON(w, http.StatusOK, gens)
}

func (s *Server) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	gen, err := s.History.GetGeneration(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, gen)
}
