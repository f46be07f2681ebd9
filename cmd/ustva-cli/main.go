package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"ustva-extractor/internal/einvoice"
	"ustva-extractor/internal/ocr"
	"ustva-extractor/internal/repository"
	"ustva-extractor/internal/service"
	"ustva-extractor/pkg/config"
	"ustva-extractor/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type normalizeResult struct {
	File       string            `json:"file"`
	Mime       string            `json:"mime,omitempty"`
	Route      string            `json:"route,omitempty"`
	Normalized *einvoice.Invoice `json:"normalized,omitempty"`
	Hint       string            `json:"hint,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func main() {
	var (
		cfg       *config.Config
		appLogger *zap.Logger
	)

	root := &cobra.Command{
		Use:           "ustva-cli",
		Short:         "Offline tools for the UStVA extractor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			// Logs go to stderr so that stdout stays machine-readable.
			if appLogger, err = logger.New(cfg.Logger.Level, logger.FormatConsole); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appLogger != nil {
				_ = appLogger.Sync()
			}
		},
	}

	var withOCR bool
	normalize := &cobra.Command{
		Use:   "normalize <file>...",
		Short: "Detect the format of files and print the normalized fields as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var recognizer service.TextRecognizer
			if withOCR || cfg.OCR.ServerSide {
				recognizer = ocr.NewRecognizer(cfg.OCR.Languages, appLogger)
			}
			dispatcher := service.NewDispatcher(service.NewAttachmentExtractor(appLogger), recognizer, appLogger)

			results := make([]normalizeResult, 0, len(args))
			for _, path := range args {
				up, err := service.ReadUpload(path)
				if err != nil {
					results = append(results, normalizeResult{File: path, Error: err.Error()})
					continue
				}
				out := dispatcher.Dispatch(cmd.Context(), up)
				results = append(results, normalizeResult{
					File:       path,
					Mime:       up.Mime,
					Route:      string(out.Route),
					Normalized: out.Invoice,
					Hint:       out.Hint,
				})
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	normalize.Flags().BoolVar(&withOCR, "ocr", false, "run Tesseract on PDFs without XML and on images")

	parseText := &cobra.Command{
		Use:   "parse-text [file]",
		Short: "Run the receipt text heuristic over a text file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), einvoice.ParseText(string(data)))
		},
	}

	var force bool
	backfill := &cobra.Command{
		Use:   "backfill <dir>",
		Short: "Ingest every file below a directory into the configured database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := repository.Open(cmd.Context(), &cfg.Database, appLogger)
			if err != nil {
				return err
			}
			defer store.Close()
			if !store.Enabled() {
				appLogger.Warn("No database configured, files are normalized but not stored")
			}

			var recognizer service.TextRecognizer
			if cfg.OCR.ServerSide {
				recognizer = ocr.NewRecognizer(cfg.OCR.Languages, appLogger)
			}
			dispatcher := service.NewDispatcher(service.NewAttachmentExtractor(appLogger), recognizer, appLogger)
			ingest := service.NewIngestService(dispatcher, store, appLogger)

			stats, err := service.NewBackfillService(ingest, appLogger).Run(cmd.Context(), args[0], force)
			if stats != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "ingested: %d  skipped: %d  failed: %d\n", stats.Ingested, stats.Skipped, stats.Failed)
				routes := make([]string, 0, len(stats.Routes))
				for route := range stats.Routes {
					routes = append(routes, route)
				}
				sort.Strings(routes)
				for _, route := range routes {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-16s %d\n", route, stats.Routes[route])
				}
			}
			return err
		},
	}
	backfill.Flags().BoolVar(&force, "force", false, "ingest files again even if they are unchanged")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create the receipts and feedback tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := repository.Open(cmd.Context(), &cfg.Database, appLogger)
			if err != nil {
				return err
			}
			defer store.Close()
			if !store.Enabled() {
				return fmt.Errorf("no database configured: set DB_DRIVER, DATABASE_URL or SQLITE_PATH")
			}
			if err := store.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema applied (%s)\n", cfg.Database.Driver)
			return nil
		},
	}

	root.AddCommand(normalize, parseText, backfill, migrate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
