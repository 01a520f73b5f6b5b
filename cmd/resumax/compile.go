package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resumax/internal/compiler"
)

var (
	compileOutput string
	compileEngine string
)

var compileCmd = &cobra.Command{
	Use:   "compile [resume.tex]",
	Short: "Compile a LaTeX file to PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output PDF path (default input name with .pdf)")
	compileCmd.Flags().StringVar(&compileEngine, "compiler", "", "latex compiler binary (default from config)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	latex, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	engine := compileEngine
	if engine == "" {
		engine = cfgManager.GetDefaultCompiler()
	}

	comp := compiler.New(
		engine,
		cfgManager.GetWorkDirectory(),
		time.Duration(cfgManager.GetCompileTimeoutSec())*time.Second,
	)
	if !comp.Available() {
		return fmt.Errorf("%s is not installed or not in PATH", engine)
	}

	result, err := comp.Compile(cmd.Context(), string(latex))
	if err != nil {
		return err
	}

	output := compileOutput
	if output == "" {
		output = strings.TrimSuffix(args[0], ".tex") + ".pdf"
	}
	if err := os.WriteFile(output, result.PDF, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Printf("wrote %s (%d pages, %d bytes)\n", output, result.PageCount, len(result.PDF))
	return nil
}
