package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leasingborsen/pricelist-cli/internal/config"
	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/ocr"
	"github.com/leasingborsen/pricelist-cli/internal/pipeline"
	"github.com/leasingborsen/pricelist-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tmpl, err := loadTemplate()
		if err != nil {
			return err
		}
		p, err := pipeline.New(tmpl)
		if err != nil {
			return err
		}

		source, err := ocr.NewPageSource(cfg.OCR)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(p, source, st, cfg.Server),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the HTTP API: extraction upload, health check, and
// run history endpoints.
func newRouter(p *pipeline.Pipeline, source ocr.PageSource, st store.Store, serverCfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: serverCfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/extract", func(w http.ResponseWriter, req *http.Request) {
		maxBytes := int64(serverCfg.MaxUploadMB) << 20
		req.Body = http.MaxBytesReader(w, req.Body, maxBytes)

		tmpFile, err := os.CreateTemp("", "pricelist-*.pdf")
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "temp file")
			return
		}
		defer os.Remove(tmpFile.Name()) //nolint:errcheck

		if _, err := tmpFile.ReadFrom(req.Body); err != nil {
			_ = tmpFile.Close()
			writeJSONError(w, http.StatusBadRequest, "read upload")
			return
		}
		_ = tmpFile.Close()

		document := req.URL.Query().Get("document")
		if document == "" {
			document = filepath.Base(tmpFile.Name())
		}

		result, err := extractDocument(req.Context(), source, p, tmpFile.Name())
		if err != nil {
			zap.L().Error("extraction failed", zap.String("document", document), zap.Error(err))
			writeJSONError(w, http.StatusUnprocessableEntity, "extraction failed")
			return
		}

		runID, err := saveRun(req.Context(), st, document, result)
		if err != nil {
			zap.L().Error("save run failed", zap.String("document", document), zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "save run")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"run_id": runID,
			"result": result,
		})
	})

	r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
		filter := store.RunFilter{
			Status:   model.RunStatus(req.URL.Query().Get("status")),
			Document: req.URL.Query().Get("document"),
		}
		runs, err := st.ListRuns(req.Context(), filter)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "list runs")
			return
		}
		writeJSON(w, http.StatusOK, runs)
	})

	r.Get("/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		run, err := st.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "run not found")
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
