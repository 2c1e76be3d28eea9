package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gpro-labs/presupuesto-cli/internal/budget"
	"github.com/gpro-labs/presupuesto-cli/internal/extract"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP extraction and quotation API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := newPipelineEnv(cfg)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      newRouter(env),
			ReadTimeout:  time.Duration(cfg.Server.TimeoutSecs) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.TimeoutSecs) * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(),
				time.Duration(cfg.Server.ShutdownSecs)*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func newRouter(env *pipelineEnv) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/budget/extract", env.handleExtract)
	r.Post("/api/cotizacion", env.handleCotizacion)

	return r
}

// requestLogger tags every request with a UUID and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (env *pipelineEnv) handleExtract(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := readUpload(w, r)
	if !ok {
		return
	}

	sheets, method, err := readDocumentBytes(filename, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	meta := budget.Meta{
		ProjectID:          r.FormValue("project_id"),
		ProjectDescription: r.FormValue("description"),
		DurationYears:      formInt(r, "duration", 1),
		SourceFiles:        []string{filename},
		Method:             method,
	}

	items, sheetNames, err := env.extractItems(r.Context(), sheets, r.FormValue("context"))
	if err != nil {
		if errors.Is(err, extract.ErrNoValidItems) && r.FormValue("fallback_defaults") == "true" {
			writeJSON(w, http.StatusOK, defaultBudget(meta))
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, extract.ErrNoValidItems) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}

	meta.SourceSheets = sheetNames
	writeJSON(w, http.StatusOK, budget.Assemble(items, meta))
}

func (env *pipelineEnv) handleCotizacion(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := readUpload(w, r)
	if !ok {
		return
	}

	sheets, _, err := readDocumentBytes(filename, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items, _, err := env.extractItems(r.Context(), sheets, r.FormValue("context"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, extract.ErrNoValidItems) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}

	includeIVA := r.FormValue("incluir_iva") == "true"
	rate := formFloat(r, "tasa_iva", cfg.Quote.IVARate)

	writeJSON(w, http.StatusOK, env.buildQuotation(r.Context(), items, includeIVA, rate))
}

// readUpload pulls the "file" part out of a multipart request, bounded by
// the configured upload limit. Writes the error response itself.
func readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	limit := int64(cfg.Server.MaxUploadMB) << 20
	if err := r.ParseMultipartForm(limit); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "parse multipart form"))
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, eris.New("multipart field \"file\" is required"))
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "read upload"))
		return "", nil, false
	}
	return header.Filename, data, true
}

func formInt(r *http.Request, key string, fallback int) int {
	if v, err := strconv.Atoi(r.FormValue(key)); err == nil {
		return v
	}
	return fallback
}

func formFloat(r *http.Request, key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(r.FormValue(key), 64); err == nil {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	zap.L().Warn("request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
