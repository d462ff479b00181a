package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/segmap/internal/census"
	"github.com/sells-group/segmap/internal/fetcher"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the block demographic index from a summary file",
	Long: `Reads a PL 94-171 style summary file (CSV or XLSX, optionally zipped,
local path or http/ftp URL), indexes every block by its GEOID, and persists
the index to the configured store.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		source, _ := cmd.Flags().GetString("source")
		if source == "" {
			source = cfg.Data.Source
		}
		if source == "" {
			return eris.New("build: no data source (set --source or data.source)")
		}

		log := zap.L().With(zap.String("command", "build"))

		path, err := localizeSource(ctx, source)
		if err != nil {
			return eris.Wrap(err, "build: fetch source")
		}

		rows, err := readRows(path)
		if err != nil {
			return eris.Wrap(err, "build: read rows")
		}

		idx, err := census.BuildIndex(rows, cfg.Data.HeaderRows)
		if err != nil {
			return eris.Wrap(err, "build: index rows")
		}
		log.Info("index built",
			zap.Int("rows", len(rows)),
			zap.Int("blocks", len(idx)),
		)

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.SaveIndex(ctx, source, idx)
		if err != nil {
			return eris.Wrap(err, "build: save index")
		}

		fmt.Printf("Indexed %d blocks from %s (load %s)\n", run.Blocks, source, run.ID)
		return nil
	},
}

func init() {
	buildCmd.Flags().String("source", "", "summary file path or URL (default from config)")
	rootCmd.AddCommand(buildCmd)
}

// localizeSource makes the data source available as a local file,
// downloading and unzipping as needed.
func localizeSource(ctx context.Context, source string) (string, error) {
	path := source

	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "ftp") {
		if err := os.MkdirAll(cfg.Fetch.TempDir, 0o755); err != nil {
			return "", eris.Wrap(err, "create temp dir")
		}
		path = filepath.Join(cfg.Fetch.TempDir, filepath.Base(u.Path))

		var f fetcher.Fetcher
		if u.Scheme == "ftp" {
			f = fetcher.NewFTPFetcher(fetcher.FTPOptions{
				Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			})
		} else {
			f = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
				UserAgent: cfg.Fetch.UserAgent,
				Timeout:   time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			})
		}

		n, err := f.DownloadToFile(ctx, source, path)
		if err != nil {
			return "", err
		}
		zap.L().Info("downloaded source",
			zap.String("url", source),
			zap.Int64("bytes", n),
		)
	}

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		extracted, err := fetcher.ExtractZIPSingle(path, cfg.Fetch.TempDir)
		if err != nil {
			return "", err
		}
		path = extracted
	}

	return path, nil
}

// readRows decodes the summary file in the configured format.
func readRows(path string) ([][]string, error) {
	if cfg.Data.Format == "xlsx" || strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close() //nolint:errcheck

	delim := ','
	if cfg.Data.Delimiter != "" {
		delim = rune(cfg.Data.Delimiter[0])
	}
	return fetcher.ReadRows(f, fetcher.CSVOptions{
		Delimiter: delim,
		TrimSpace: true,
	})
}
