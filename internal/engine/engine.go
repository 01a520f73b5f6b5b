// Package engine wires the section pipeline together: format
// dispatch, block splitting, metadata generation, filtered
// reassembly and brace validation. Parsing and assembly are pure
// functions of their inputs; the only side effect is the debug
// artifact pair written on a brace mismatch.
package engine

import (
	"strings"

	"resumax/internal/assembler"
	"resumax/internal/logger"
	"resumax/internal/metadata"
	"resumax/internal/parser"
	"resumax/internal/splitter"
	"resumax/internal/types"
	"resumax/internal/validator"
)

// Engine exposes the two entry points of the section core. It is
// stateless per call and safe for concurrent use.
type Engine struct {
	debug     *validator.DebugWriter
	lookbacks map[types.FormatID]int
}

// New creates an Engine. debugDir roots the brace-mismatch artifacts
// (empty means the system temp dir); lookbacks optionally overrides
// the per-format item lookback window.
func New(debugDir string, lookbacks map[types.FormatID]int) (*Engine, error) {
	debug, err := validator.NewDebugWriter(debugDir)
	if err != nil {
		return nil, types.NewAppError(types.ErrConfig, "failed to initialize debug writer", err)
	}
	return &Engine{debug: debug, lookbacks: lookbacks}, nil
}

// ParseResult bundles the outputs of one parse call.
type ParseResult struct {
	ParsedData *types.ParsedData                `json:"parsed_data"`
	Metadata   map[string]types.SectionMetadata `json:"metadata"`
}

// ParseSections decomposes raw LaTeX into blocks and UI metadata.
// templateID is optional; when empty the format is auto-detected. A
// document without recognizable anchors is not an error: it degrades
// to a preamble-only decomposition.
func (e *Engine) ParseSections(latexCode string, templateID string) (*ParseResult, error) {
	if strings.TrimSpace(latexCode) == "" {
		return nil, types.NewAppError(types.ErrInvalidInput, "latex code cannot be empty", nil)
	}

	var formatID types.FormatID
	if templateID != "" {
		formatID = types.FormatID(strings.ToLower(templateID))
	} else {
		formatID = parser.Detect(latexCode)
	}

	format, err := parser.Get(formatID)
	if err != nil {
		return nil, err
	}

	info := format.Parse(latexCode)
	logger.Info("parsed sections",
		logger.String("format", string(formatID)),
		logger.Int("sections", len(info)))

	blocks := splitter.Split(latexCode, info, format, splitter.Options{
		Lookback: e.lookbacks[formatID],
	})

	parsed := &types.ParsedData{
		FormatID:      formatID,
		LatexBlocks:   blocks,
		SectionInfo:   info,
		OriginalLatex: latexCode,
	}

	return &ParseResult{
		ParsedData: parsed,
		Metadata:   metadata.Generate(parsed),
	}, nil
}

// FilterResult bundles the outputs of one filter call. FilteredLatex
// is always populated, even on a brace mismatch, so the caller can
// inspect and retry.
type FilterResult struct {
	FilteredLatex string                `json:"filtered_latex"`
	Brace         validator.BraceResult `json:"brace"`
	DebugFiles    *validator.DebugPair  `json:"debug_files,omitempty"`
}

// FilterLatex reassembles the selected blocks into a complete
// document and validates brace balance. A mismatch is reported in the
// result, not as an error; the engine never repairs output.
func (e *Engine) FilterLatex(parsed *types.ParsedData, selections assembler.Selections) (*FilterResult, error) {
	if parsed == nil || parsed.LatexBlocks.Preamble == "" && len(parsed.LatexBlocks.Sections) == 0 {
		return nil, types.NewAppError(types.ErrInvalidInput, "parsed data is missing latex blocks", nil)
	}

	filtered := assembler.Assemble(parsed, selections)
	result := &FilterResult{
		FilteredLatex: filtered,
		Brace:         validator.CheckBraces(filtered),
	}

	if !result.Brace.Balanced {
		original := validator.CheckBraces(parsed.OriginalLatex)
		logger.Warn("brace mismatch after filtering",
			logger.Int("filteredDiff", result.Brace.Diff()),
			logger.Int("originalDiff", original.Diff()))

		pair, err := e.debug.WritePair(filtered, parsed.OriginalLatex)
		if err != nil {
			// Artifact persistence is best effort; the mismatch
			// signal still reaches the caller.
			logger.Error("failed to persist debug pair", err)
		} else {
			result.DebugFiles = pair
		}
	}

	return result, nil
}
