package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/geogate/geogate"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := &http.Server{
		Addr:    c.Addr,
		Handler: newHandler(deps),
	}
	deps.Logger.Info("listening", "addr", c.Addr)
	return server.ListenAndServe()
}

// newHandler builds the HTTP surface: thin glue over the pipeline's four
// external entry points.
func newHandler(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /geo", handleGeo(deps))
	mux.HandleFunc("GET /inspect", handleInspect(deps))
	mux.HandleFunc("POST /render", handleRender(deps))
	mux.HandleFunc("GET /cache/stats", handleCacheStats(deps))
	mux.HandleFunc("POST /cache/clear", handleCacheClear(deps))
	return mux
}

// signalsFromRequest projects an HTTP request onto classification
// signals. Header and query keys are lower-cased.
func signalsFromRequest(r *http.Request) geogate.RequestSignals {
	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if len(values) > 0 {
			headers[strings.ToLower(name)] = values[0]
		}
	}
	query := make(map[string]string)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			query[strings.ToLower(name)] = values[0]
		}
	}
	return geogate.RequestSignals{
		UserAgent: r.UserAgent(),
		Accept:    r.Header.Get("Accept"),
		Headers:   headers,
		Query:     query,
	}
}

func handleGeo(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		if target == "" {
			writeError(w, geogate.Errorf(geogate.EINVALID, "url query parameter required"))
			return
		}

		doc, meta, err := deps.Pipeline.Handle(r.Context(), target, signalsFromRequest(r))
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-GEO-Optimized", fmt.Sprintf("%t", meta.Optimized))
		w.Header().Set("X-GEO-Source", meta.SourceURL)
		if meta.Service != "" {
			w.Header().Set("X-AI-Service", string(meta.Service))
		}
		if meta.ETag != "" {
			w.Header().Set("ETag", meta.ETag)
		}
		_, _ = w.Write([]byte(doc))
	}
}

func handleInspect(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		if target == "" {
			writeError(w, geogate.Errorf(geogate.EINVALID, "url query parameter required"))
			return
		}

		inspection, err := deps.Pipeline.Inspect(r.Context(), target)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, inspection)
	}
}

func handleRender(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ir geogate.IR
		if err := json.NewDecoder(r.Body).Decode(&ir); err != nil {
			writeError(w, geogate.Errorf(geogate.EINVALID, "malformed IR payload: %v", err))
			return
		}

		doc, err := deps.Pipeline.RenderIR(&ir)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(doc))
	}
}

func handleCacheStats(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Pipeline.CacheStats())
	}
}

func handleCacheClear(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Pipeline.ClearCaches()
		w.WriteHeader(http.StatusNoContent)
	}
}

// errorPayload is the structured failure body: a code and a
// human-readable message, never a half-rendered document.
type errorPayload struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	var payload errorPayload
	payload.Error.Code = geogate.ErrorCode(err)
	payload.Error.Message = geogate.ErrorMessage(err)
	writeJSON(w, statusFromCode(payload.Error.Code), payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFromCode(code string) int {
	switch code {
	case geogate.EINVALID:
		return http.StatusBadRequest
	case geogate.ENOTFOUND:
		return http.StatusNotFound
	case geogate.EUNPROCESSABLE:
		return http.StatusUnprocessableEntity
	case geogate.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
