package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cotizarIVA     bool
	cotizarIVARate float64
	cotizarContext string
	cotizarJSON    bool
)

var cotizarCmd = &cobra.Command{
	Use:   "cotizar <file.xlsx>",
	Short: "Generate a formal Colombian quotation from a budget spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("cotizar"); err != nil {
			return err
		}
		env, err := newPipelineEnv(cfg)
		if err != nil {
			return err
		}

		sheets, _, err := readDocument(args[0])
		if err != nil {
			return err
		}

		items, _, err := env.extractItems(cmd.Context(), sheets, cotizarContext)
		if err != nil {
			return err
		}

		rate := cotizarIVARate
		if rate == 0 {
			rate = cfg.Quote.IVARate
		}
		doc := env.buildQuotation(cmd.Context(), items, cotizarIVA, rate)

		if cotizarJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		}
		fmt.Fprintln(cmd.OutOrStdout(), doc.Markdown)
		return nil
	},
}

func init() {
	cotizarCmd.Flags().BoolVar(&cotizarIVA, "iva", false, "include IVA in the quotation")
	cotizarCmd.Flags().Float64Var(&cotizarIVARate, "iva-rate", 0, "IVA rate (default from config)")
	cotizarCmd.Flags().StringVar(&cotizarContext, "context", "", "free-text project context for value estimation")
	cotizarCmd.Flags().BoolVar(&cotizarJSON, "json", false, "emit the full quotation document as JSON")
	rootCmd.AddCommand(cotizarCmd)
}
