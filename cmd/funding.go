package main

import (
	"encoding/json"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/assess-cli/internal/fetcher"
	"github.com/sells-group/assess-cli/internal/funding"
)

var (
	fundingImportFile string
	fundingImportURL  string
)

var fundingCmd = &cobra.Command{
	Use:   "funding",
	Short: "Manage the historical funding table",
}

var fundingImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Build the funding table from a funding-awarded export",
	Long:  "Parses a CSV or XLSX export of awarded funding, from a local file or a URL, and replaces the table at the configured funding source.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if (fundingImportFile == "") == (fundingImportURL == "") {
			return eris.New("exactly one of --file or --url is required")
		}
		if err := cfg.Validate("funding"); err != nil {
			return err
		}

		src := fundingImportFile
		if fundingImportURL != "" {
			tmp, err := downloadExport(cmd, fundingImportURL)
			if err != nil {
				return err
			}
			defer os.RemoveAll(filepath.Dir(tmp)) //nolint:errcheck
			src = tmp
		}

		data, stats, err := funding.ImportFile(ctx, src)
		if err != nil {
			return err
		}

		n, err := funding.Save(ctx, fundingSource(cfg), data)
		if err != nil {
			return eris.Wrap(err, "save funding table")
		}

		zap.L().Info("funding import complete",
			zap.String("driver", cfg.Funding.Driver),
			zap.Int("rows", stats.Rows),
			zap.Int("skipped", stats.Skipped),
			zap.Int("companies", stats.Companies),
			zap.Int64("entries", n),
		)
		return nil
	},
}

// downloadExport fetches rawURL into a temp directory, keeping the file
// extension so the importer can pick a parser.
func downloadExport(cmd *cobra.Command, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrap(err, "parse --url")
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext != ".csv" && ext != ".xlsx" {
		return "", eris.Errorf("cannot infer export format from %q (want .csv or .xlsx)", u.Path)
	}

	dir, err := os.MkdirTemp("", "funding-export-")
	if err != nil {
		return "", eris.Wrap(err, "create temp dir")
	}
	dst := filepath.Join(dir, "export"+ext)

	n, err := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}).DownloadToFile(cmd.Context(), rawURL, dst)
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", eris.Wrap(err, "download export")
	}
	zap.L().Info("funding export downloaded", zap.String("url", rawURL), zap.Int64("bytes", n))
	return dst, nil
}

var fundingStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the configured funding table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("funding"); err != nil {
			return err
		}
		table, err := funding.Open(cmd.Context(), fundingSource(cfg))
		if err != nil {
			return eris.Wrap(err, "load funding table")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(table.Stats()), "write stats")
	},
}

func init() {
	fundingImportCmd.Flags().StringVar(&fundingImportFile, "file", "", "path to a CSV or XLSX export")
	fundingImportCmd.Flags().StringVar(&fundingImportURL, "url", "", "URL of a CSV or XLSX export")
	fundingCmd.AddCommand(fundingImportCmd, fundingStatsCmd)
	rootCmd.AddCommand(fundingCmd)
}
