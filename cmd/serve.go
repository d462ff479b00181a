package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/segmap/internal/census"
	"github.com/sells-group/segmap/internal/choropleth"
	"github.com/sells-group/segmap/internal/style"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve block styles, tooltips, and the legend over HTTP",
	Long: `Loads the stored demographic index and serves the per-block style
parameters a map frontend needs. With --features, also serves the fully
styled feature collection.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		enc, err := buildEncoder()
		if err != nil {
			return eris.Wrap(err, "serve: build encoder")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		idx, err := st.LoadIndex(ctx)
		if err != nil {
			return eris.Wrap(err, "serve: load index")
		}
		zap.L().Info("index loaded", zap.Int("blocks", len(idx)))

		// Pre-style the feature collection once; every /api/features
		// response serves the same bytes.
		var styled []byte
		featuresPath, _ := cmd.Flags().GetString("features")
		if featuresPath != "" {
			styled, err = styleCollection(cmd, idx, enc, featuresPath)
			if err != nil {
				return err
			}
		}

		r := newRouter(idx, enc, styled)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
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
	serveCmd.Flags().String("features", "", "block GeoJSON to serve styled at /api/features")
	rootCmd.AddCommand(serveCmd)
}

// styleCollection loads, styles, and re-encodes a feature collection.
func styleCollection(cmd *cobra.Command, idx census.Index, enc *style.Encoder, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "serve: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	fc, err := choropleth.LoadFeatures(f)
	if err != nil {
		return nil, err
	}

	mapper := choropleth.NewMapper(idx, enc, cfg.Data.GeoIDProperty)
	if err := mapper.StyleFeatures(cmd.Context(), fc); err != nil {
		return nil, err
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return nil, eris.Wrap(err, "serve: encode styled features")
	}
	return data, nil
}

// newRouter builds the style API routes.
func newRouter(idx census.Index, enc *style.Encoder, styledFeatures []byte) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/legend", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, enc.Legend())
	})

	r.Get("/api/blocks/{geoid}/style", func(w http.ResponseWriter, req *http.Request) {
		sum, ok := summarizeBlock(w, idx, enc, chi.URLParam(req, "geoid"))
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, enc.Encode(sum))
	})

	r.Get("/api/blocks/{geoid}/tooltip", func(w http.ResponseWriter, req *http.Request) {
		sum, ok := summarizeBlock(w, idx, enc, chi.URLParam(req, "geoid"))
		if !ok {
			return
		}
		if sum == nil {
			// Invisible blocks have no tooltip.
			http.Error(w, `{"error":"block has no summary"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"tooltip": enc.Tooltip(sum)})
	})

	r.Get("/api/features", func(w http.ResponseWriter, _ *http.Request) {
		if styledFeatures == nil {
			http.Error(w, `{"error":"no feature collection configured"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write(styledFeatures)
	})

	return r
}

// summarizeBlock resolves a GEOID to its summary. A missing join is a
// summary-less block, not an error; a malformed record is a 500.
func summarizeBlock(w http.ResponseWriter, idx census.Index, enc *style.Encoder, geoid string) (*census.Summary, bool) {
	rec, found := idx[geoid]
	if !found {
		return nil, true
	}
	sum, err := enc.Catalog().Summarize(rec)
	if err != nil {
		zap.L().Error("summarize block failed",
			zap.String("geoid", geoid),
			zap.Error(err),
		)
		http.Error(w, `{"error":"malformed block record"}`, http.StatusInternalServerError)
		return nil, false
	}
	return sum, true
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
