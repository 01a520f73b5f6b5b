// Package compiler turns a complete LaTeX document into PDF bytes by
// driving pdflatex (or xelatex). It is an opaque collaborator of the
// section engine: it receives one finished document string and never
// inspects the engine's internals.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"resumax/internal/logger"
	"resumax/internal/types"
)

const (
	// CompilerPDFLaTeX is the pdflatex compiler
	CompilerPDFLaTeX = "pdflatex"
	// CompilerXeLaTeX is the xelatex compiler
	CompilerXeLaTeX = "xelatex"
	// DefaultTimeout is the default per-pass compile timeout
	DefaultTimeout = 60 * time.Second
)

// Result carries the outcome of one compile call.
type Result struct {
	PDF       []byte
	PageCount int
	Log       string
}

// Compiler compiles LaTeX documents in per-request temp directories.
type Compiler struct {
	compiler string // "pdflatex" or "xelatex"
	workDir  string // parent for per-request temp dirs; empty means os.TempDir
	timeout  time.Duration
}

// New creates a Compiler. An empty compiler name selects pdflatex; a
// zero timeout selects the default.
func New(compiler string, workDir string, timeout time.Duration) *Compiler {
	if compiler == "" {
		compiler = CompilerPDFLaTeX
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Compiler{compiler: compiler, workDir: workDir, timeout: timeout}
}

// Available reports whether the configured compiler binary can be
// found and executed.
func (c *Compiler) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, c.compiler, "--version").Run() == nil
}

// Compile writes the document to a fresh temp directory, runs two
// compiler passes (the second resolves references), and returns the
// produced PDF. The temp directory is removed afterwards.
func (c *Compiler) Compile(ctx context.Context, latexCode string) (*Result, error) {
	if strings.TrimSpace(latexCode) == "" {
		return nil, types.NewAppError(types.ErrInvalidInput, "latex code cannot be empty", nil)
	}

	dir, err := os.MkdirTemp(c.workDir, "resumax-compile-*")
	if err != nil {
		return nil, types.NewAppError(types.ErrInternal, "failed to create compile directory", err)
	}
	defer os.RemoveAll(dir)

	texPath := filepath.Join(dir, "resume.tex")
	if err := os.WriteFile(texPath, []byte(latexCode), 0644); err != nil {
		return nil, types.NewAppError(types.ErrInternal, "failed to write tex file", err)
	}

	logger.Info("compiling document",
		logger.String("compiler", c.compiler),
		logger.Int("chars", len(latexCode)))

	// Two passes: the first generates aux data, the second resolves
	// references and final layout.
	log1, err := c.runPass(ctx, dir)
	log2, err2 := c.runPass(ctx, dir)
	combinedLog := combineOutput(log1, log2)

	pdfPath := filepath.Join(dir, "resume.pdf")
	pdfBytes, readErr := os.ReadFile(pdfPath)
	if readErr != nil {
		// No PDF at all: report the pass error with the log tail.
		passErr := err2
		if passErr == nil {
			passErr = err
		}
		logger.Error("compilation produced no PDF", passErr)
		return nil, types.NewAppErrorWithDetails(types.ErrCompile,
			"compilation failed", logTail(combinedLog, 2000), passErr)
	}

	// pdflatex can exit non-zero yet still emit a usable PDF; verify
	// the output instead of trusting the exit code.
	result := &Result{PDF: pdfBytes, Log: combinedLog}
	if err := verifyPDF(pdfPath, result); err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrCompile,
			"produced PDF failed validation", logTail(combinedLog, 2000), err)
	}

	logger.Info("compilation succeeded",
		logger.Int("pdfBytes", len(pdfBytes)),
		logger.Int("pages", result.PageCount))
	return result, nil
}

// runPass executes a single compiler pass in dir.
func (c *Compiler) runPass(ctx context.Context, dir string) (string, error) {
	passCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// No -halt-on-error: some documents still produce a usable PDF
	// despite non-fatal errors.
	cmd := exec.CommandContext(passCtx, c.compiler, "-interaction=nonstopmode", "resume.tex")
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	log := combineOutput(stdout.String(), stderr.String())

	if passCtx.Err() == context.DeadlineExceeded {
		return log, types.NewAppError(types.ErrCompile, "compilation timed out", passCtx.Err())
	}
	return log, err
}

// verifyPDF validates the produced file with pdfcpu and cross-checks
// the page count with ledongthuc/pdf, which handles some files pdfcpu
// rejects.
func verifyPDF(pdfPath string, result *Result) error {
	if err := api.ValidateFile(pdfPath, nil); err != nil {
		return fmt.Errorf("pdfcpu validation: %w", err)
	}

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		// Validation already passed; treat an unreadable page tree as
		// page count unknown rather than failure.
		logger.Warn("could not read page count", logger.Err(err))
		return nil
	}
	defer f.Close()

	result.PageCount = r.NumPage()
	if result.PageCount == 0 {
		return fmt.Errorf("produced PDF has no pages")
	}
	return nil
}

// combineOutput combines pass logs into a single string
func combineOutput(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// logTail returns the last n bytes of a compile log, where the actual
// error usually lives.
func logTail(log string, n int) string {
	if len(log) <= n {
		return log
	}
	return "..." + log[len(log)-n:]
}
