package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resumax/internal/assembler"
	"resumax/internal/engine"
	"resumax/internal/validator"
)

var (
	filterSelections string
	filterOutput     string
)

var filterCmd = &cobra.Command{
	Use:   "filter [parsed.json]",
	Short: "Reassemble a resume from a parse result and selections",
	Long: `Reads the JSON produced by the parse command and a selections file,
then emits the filtered LaTeX document. With no selections file every
section and item is kept, reproducing the original document.

A selections file maps section keys to either a boolean or an object:

  {
    "education": true,
    "experience": {"enabled": true, "items": [0, 2]},
    "references": false
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVarP(&filterSelections, "selections", "s", "", "JSON file mapping section keys to selections")
	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", "", "write LaTeX to file instead of stdout")
}

func runFilter(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var parsed engine.ParseResult
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("invalid parse result: %w", err)
	}

	var selections assembler.Selections
	if filterSelections != "" {
		selData, err := os.ReadFile(filterSelections)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filterSelections, err)
		}
		if err := json.Unmarshal(selData, &selections); err != nil {
			return fmt.Errorf("invalid selections: %w", err)
		}
	}

	eng, err := engine.New(cfgManager.GetDebugDirectory(), cfgManager.GetLookbackOverrides())
	if err != nil {
		return err
	}

	result, err := eng.FilterLatex(parsed.ParsedData, selections)
	if err != nil {
		return err
	}

	if !result.Brace.Balanced {
		fmt.Fprintln(os.Stderr, "warning:", validator.FormatMismatch(result.Brace))
		if result.DebugFiles != nil {
			fmt.Fprintln(os.Stderr, "debug files:", result.DebugFiles.FilteredPath, result.DebugFiles.OriginalPath)
		}
	}

	return writeOutput(filterOutput, []byte(result.FilteredLatex))
}
