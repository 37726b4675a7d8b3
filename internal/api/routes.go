package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jask/etlstudio/internal/database/repository"
	"github.com/jask/etlstudio/internal/pipeline"
)

const (
	defaultRowLimit = 3
	maxRowLimit     = 1000
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Get("/dashboard", dashboardHandler(cfg))

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", listTablesHandler(cfg))
		r.Get("/{name}", getTableHandler(cfg))
		r.Get("/{name}/rows", listRowsHandler(cfg))
		r.Post("/{name}/export", exportHandler(cfg))
	})
	r.Get("/relationships", relationshipsHandler(cfg))

	r.Get("/pipeline", pipelineHandler(cfg))
	r.Post("/pipeline/runs", startRunHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", UptimeS: uptime(cfg.StartTime)})
	}
}

func dashboardHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Dashboard)
	}
}

func listTablesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables, err := cfg.Schema.Tables(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list tables", "INTERNAL_ERROR")
			return
		}
		resp := TablesResponse{Tables: make([]TableResponse, len(tables))}
		for i, t := range tables {
			resp.Tables[i] = TableToResponse(t)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getTableHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := cfg.Schema.Table(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			writeTableError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, TableToResponse(t))
	}
}

func listRowsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRowLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxRowLimit {
				WriteError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxRowLimit), "BAD_REQUEST")
				return
			}
			limit = n
		}

		name := chi.URLParam(r, "name")
		rs, err := cfg.Schema.Rows(r.Context(), name, limit)
		if err != nil {
			writeTableError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, RowsToResponse(name, rs))
	}
}

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Export == nil {
			WriteError(w, http.StatusServiceUnavailable, "export not configured", "UNAVAILABLE")
			return
		}
		res, err := cfg.Export.Export(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			writeTableError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, ExportResponse{Table: res.Table, Path: res.Path, Rows: res.Rows})
	}
}

func relationshipsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rels, err := cfg.Schema.Relationships(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list relationships", "INTERNAL_ERROR")
			return
		}
		resp := RelationshipsResponse{Relationships: make([]RelationshipResponse, len(rels))}
		for i, rel := range rels {
			resp.Relationships[i] = RelationshipResponse{FromTable: rel.FromTable, FromColumn: rel.FromColumn, To: rel.To}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func pipelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, SnapshotToResponse(cfg.Runner.Snapshot()))
	}
}

func startRunHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// the run outlives the request
		runID, err := cfg.Runner.Launch(cfg.RunContext)
		if errors.Is(err, pipeline.ErrAlreadyRunning) {
			WriteError(w, http.StatusConflict, err.Error(), "CONFLICT")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusAccepted, RunStartedResponse{RunID: runID})
	}
}

func writeTableError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrUnknownTable) {
		WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
		return
	}
	WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
}
