package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gpro-labs/presupuesto-cli/internal/budget"
	"github.com/gpro-labs/presupuesto-cli/internal/extract"
	"github.com/gpro-labs/presupuesto-cli/internal/model"
)

var (
	extractXLSXOut     string
	extractProjectID   string
	extractDescription string
	extractDuration    int
	extractContext     string
	extractFallback    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.xlsx|file.docx>",
	Short: "Extract a categorized budget document from a spreadsheet or document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("extract"); err != nil {
			return err
		}
		env, err := newPipelineEnv(cfg)
		if err != nil {
			return err
		}

		path := args[0]
		meta := budget.Meta{
			ProjectID:          extractProjectID,
			ProjectDescription: extractDescription,
			DurationYears:      extractDuration,
			SourceFiles:        []string{path},
		}

		sheets, method, err := readDocument(path)
		if err != nil {
			return err
		}
		meta.Method = method

		var doc *model.BudgetDocument
		items, sheetNames, err := env.extractItems(cmd.Context(), sheets, extractContext)
		switch {
		case err == nil:
			meta.SourceSheets = sheetNames
			doc = budget.Assemble(items, meta)
		case errors.Is(err, extract.ErrNoValidItems) && extractFallback:
			zap.L().Warn("extract: no items found, using default template",
				zap.String("file", path),
			)
			doc = defaultBudget(meta)
		default:
			return err
		}

		if extractXLSXOut != "" {
			data, err := budget.RenderXLSX(doc)
			if err != nil {
				return err
			}
			if err := os.WriteFile(extractXLSXOut, data, 0o644); err != nil {
				return eris.Wrap(err, "write xlsx artifact")
			}
			zap.L().Info("extract: workbook written", zap.String("path", extractXLSXOut))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractXLSXOut, "xlsx", "", "also write a styled budget workbook to this path")
	extractCmd.Flags().StringVar(&extractProjectID, "project-id", "", "project identifier for the banner")
	extractCmd.Flags().StringVar(&extractDescription, "description", "", "project description")
	extractCmd.Flags().IntVar(&extractDuration, "duration", 1, "project duration in years")
	extractCmd.Flags().StringVar(&extractContext, "context", "", "free-text project context for value estimation")
	extractCmd.Flags().BoolVar(&extractFallback, "fallback-defaults", false, "emit the default template budget when no items are found")
	rootCmd.AddCommand(extractCmd)
}
