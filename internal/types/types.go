// Package types defines core data types and enums for the Resumax section engine.
package types

import (
	"regexp"
	"strings"
)

// Config 应用配置
type Config struct {
	ListenAddr        string         `json:"listen_addr"`         // HTTP 服务监听地址
	WorkDirectory     string         `json:"work_directory"`      // 编译工作目录
	DebugDirectory    string         `json:"debug_directory"`     // 括号不平衡调试文件目录
	DefaultCompiler   string         `json:"default_compiler"`    // "pdflatex" 或 "xelatex"
	CompileTimeoutSec int            `json:"compile_timeout_sec"` // 单次编译超时（秒）
	LogFilePath       string         `json:"log_file_path"`
	LogLevel          string         `json:"log_level"`
	LookbackOverrides map[string]int `json:"lookback_overrides,omitempty"` // 按模板覆盖条目回溯窗口
}

// FormatID identifies a resume template family.
type FormatID string

const (
	FormatATS       FormatID = "ats"
	FormatModern    FormatID = "modern"
	FormatCool      FormatID = "cool"
	FormatTwoColumn FormatID = "two-column"
)

// SectionInfo describes one logical section in document order.
// Subsections are cleaned display labels, not the raw spans used for
// reassembly.
type SectionInfo struct {
	Title       string   `json:"title"`
	Subsections []string `json:"subsections"`
}

// EnvironmentWrapper records the begin/end markup of a wrapper
// environment (multicols, tabular, ...) around a section's items.
// Wrapper markup is emitted only when at least one contained item
// survives filtering.
type EnvironmentWrapper struct {
	Name         string `json:"name"`
	OpenCommand  string `json:"open_command"`
	CloseCommand string `json:"close_command"`
}

// Item is one selectable span inside a complex section. The text is a
// complete, compilable unit including its introducing command.
// MissingCommand marks items where no introducing command was found
// within the lookback window; they are emitted as-is and surfaced in
// debug logs.
type Item struct {
	Index          int    `json:"index"`
	Text           string `json:"text"`
	MissingCommand bool   `json:"missing_command,omitempty"`
}

// SectionBlock is one reusable "lego" block extracted from the
// original document.
type SectionBlock struct {
	Key           string              `json:"key"`
	Title         string              `json:"title"`
	SectionHeader string              `json:"section_header"`
	FullContent   string              `json:"full_content"`
	HasItems      bool                `json:"has_items"`
	Items         []Item              `json:"items,omitempty"`
	Wrapper       *EnvironmentWrapper `json:"environment_wrapper,omitempty"`
	// Trailing holds section-level markup after the wrapper's end,
	// emitted whenever the section itself is emitted.
	Trailing string `json:"trailing,omitempty"`
}

// LatexBlocks holds the full decomposition of a document. Preamble and
// closing are always included verbatim on reassembly.
type LatexBlocks struct {
	Preamble string                  `json:"preamble"`
	Sections map[string]SectionBlock `json:"sections"`
	Closing  string                  `json:"closing"`
}

// ParsedData is the immutable result of one parse call. It is
// round-tripped by the caller on every subsequent filter call; the
// engine keeps no server-side state.
type ParsedData struct {
	FormatID      FormatID      `json:"format_id"`
	LatexBlocks   LatexBlocks   `json:"latex_blocks"`
	SectionInfo   []SectionInfo `json:"section_info"`
	OriginalLatex string        `json:"original_latex"`
}

// SectionType classifies a section for the selection UI.
type SectionType string

const (
	// SectionSimple sections are selected or omitted as a whole.
	SectionSimple SectionType = "simple"
	// SectionComplex sections carry individually selectable items.
	SectionComplex SectionType = "complex"
)

// SectionMetadata is the UI-facing description of one section.
type SectionMetadata struct {
	Type      SectionType `json:"type"`
	Label     string      `json:"label"`
	ItemCount int         `json:"item_count,omitempty"`
}

var (
	sectionKeyPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)
	nonKeyRun         = regexp.MustCompile(`[^a-z0-9]+`)
)

// SectionKey is the normalized identifier correlating SectionInfo,
// SectionBlock, SectionMetadata and Selections for one section.
type SectionKey string

// Valid reports whether the key is in normalized form (lowercase
// alphanumeric runs joined by single underscores).
func (k SectionKey) Valid() bool {
	return sectionKeyPattern.MatchString(string(k))
}

func (k SectionKey) String() string {
	return string(k)
}

// NormalizeSectionKey derives the stable join key for a section
// title: lowercased, non-alphanumeric runs collapsed to single
// underscores, leading/trailing underscores trimmed.
func NormalizeSectionKey(title string) SectionKey {
	key := nonKeyRun.ReplaceAllString(strings.ToLower(title), "_")
	return SectionKey(strings.Trim(key, "_"))
}

// ErrorCode classifies engine errors.
type ErrorCode string

const (
	ErrParse         ErrorCode = "PARSE_ERROR"
	ErrFormatUnknown ErrorCode = "FORMAT_UNKNOWN"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrBraceMismatch ErrorCode = "BRACE_MISMATCH"
	ErrCompile       ErrorCode = "COMPILE_ERROR"
	ErrConfig        ErrorCode = "CONFIG_ERROR"
	ErrInternal      ErrorCode = "INTERNAL_ERROR"
)

// AppError is the application error carrying a machine-readable code.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
