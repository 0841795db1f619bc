package handler

import (
	"context"
	"net/http"
)

func listRecords[Out any](h *Handler, list func(context.Context, int64) ([]Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context(), userID(r))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if items == nil {
			items = []Out{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func createRecord[In, Out any](h *Handler, create func(context.Context, int64, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := decode(w, r, &in); err != nil {
			h.writeError(w, r, err)
			return
		}
		out, err := create(r.Context(), userID(r), in)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

func updateRecord[In, Out any](h *Handler, update func(context.Context, int64, int64, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		var in In
		if err := decode(w, r, &in); err != nil {
			h.writeError(w, r, err)
			return
		}
		out, err := update(r.Context(), userID(r), id, in)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteRecord(h *Handler, remove func(context.Context, int64, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if err := remove(r.Context(), userID(r), id); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
