package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resumax/internal/engine"
	"resumax/internal/parser"
)

var (
	parseTemplate string
	parseOutput   string
)

var parseCmd = &cobra.Command{
	Use:   "parse [resume.tex]",
	Short: "Decompose a LaTeX resume into section blocks",
	Long: `Parses a LaTeX resume into a JSON document holding the preamble,
per-section blocks with their selectable items, and UI metadata. The
output round-trips through the filter command.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseTemplate, "template", "t", "", "format id (ats, modern, cool, two-column); auto-detected when omitted")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "write JSON to file instead of stdout")
}

func runParse(cmd *cobra.Command, args []string) error {
	latex, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	eng, err := engine.New(cfgManager.GetDebugDirectory(), cfgManager.GetLookbackOverrides())
	if err != nil {
		return err
	}

	result, err := eng.ParseSections(string(latex), parseTemplate)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(parseOutput, append(data, '\n'))
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List supported resume formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, f := range parser.List() {
			fmt.Printf("%-12s %s\n", f.ID(), f.Description())
		}
		return nil
	},
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
