package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "sheetsense/internal/errors"
	"sheetsense/internal/discover"
	"sheetsense/internal/registry"
	"sheetsense/internal/report"
)

// previewRowLimit caps how many data rows the preview endpoint returns.
const previewRowLimit = 50

// NewAPIRouter builds the read-only JSON API over the table registry.
// It owns no mutation: uploads and clears go through the main server.
func NewAPIRouter(reg *registry.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", listTables(reg))
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", getTable(reg))
			r.Get("/rows", getTableRows(reg))
			r.Get("/report", getTableReport(reg))
			r.Get("/relationships", getTableRelationships(reg))
		})
	})

	return r
}

func listTables(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, reg.List())
	}
}

func getTable(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := reg.GetByName(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func getTableRows(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := reg.GetByName(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}

		limit := previewRowLimit
		if limit > len(info.Table.Rows) {
			limit = len(info.Table.Rows)
		}
		rows := make([][]string, limit)
		for i := 0; i < limit; i++ {
			rows[i] = info.Table.RowStrings(i)
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"columns":    info.Columns,
			"rows":       rows,
			"total_rows": len(info.Table.Rows),
		})
	}
}

func getTableReport(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := reg.GetByName(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}

		md := report.BuildMarkdown(info)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(report.RenderHTML(md))
	}
}

func getTableRelationships(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := reg.GetByName(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}

		relationships := discover.Correlations(info.Table, info.Types)
		if relationships == nil {
			relationships = []discover.Relationship{}
		}
		writeJSON(w, http.StatusOK, relationships)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding failure", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if apperrors.GetCode(err) == apperrors.CodeNotFound {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
