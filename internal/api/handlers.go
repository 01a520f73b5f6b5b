package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"resumax/internal/assembler"
	"resumax/internal/parser"
	"resumax/internal/types"
)

// Request bodies are capped well above any realistic resume.
const maxRequestBytes = 8 << 20

type parseSectionsRequest struct {
	LatexCode  string `json:"latex_code"`
	TemplateID string `json:"template_id,omitempty"`
}

func (s *Server) handleParseSections(w http.ResponseWriter, r *http.Request) {
	var req parseSectionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.engine.ParseSections(req.LatexCode, req.TemplateID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"format_id":   result.ParsedData.FormatID,
		"parsed_data": result.ParsedData,
		"metadata":    result.Metadata,
	})
}

type filterLatexRequest struct {
	ParsedData *types.ParsedData    `json:"parsed_data"`
	Selections assembler.Selections `json:"selections"`
}

func (s *Server) handleFilterLatex(w http.ResponseWriter, r *http.Request) {
	var req filterLatexRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.engine.FilterLatex(req.ParsedData, req.Selections)
	if err != nil {
		writeAppError(w, err)
		return
	}

	resp := map[string]any{
		"success":        true,
		"filtered_latex": result.FilteredLatex,
		"brace_balanced": result.Brace.Balanced,
	}
	if !result.Brace.Balanced {
		resp["brace_open"] = result.Brace.Open
		resp["brace_close"] = result.Brace.Close
	}
	if result.DebugFiles != nil {
		resp["debug_files"] = result.DebugFiles
	}
	writeJSON(w, http.StatusOK, resp)
}

type compileLatexRequest struct {
	LatexCode string `json:"latex_code"`
	Filename  string `json:"filename,omitempty"`
}

// pdfFilename sanitizes the client-supplied download name. Anything
// that could escape into a header or a path collapses to the default.
func pdfFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "\"\r\n") {
		return "resume.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

func (s *Server) handleCompileLatex(w http.ResponseWriter, r *http.Request) {
	var req compileLatexRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.LatexCode == "" {
		jsonError(w, types.ErrInvalidInput, "latex code cannot be empty", http.StatusBadRequest)
		return
	}
	if s.compiler == nil || !s.compiler.Available() {
		jsonError(w, types.ErrCompile, "latex compiler is not installed", http.StatusServiceUnavailable)
		return
	}

	result, err := s.compiler.Compile(r.Context(), req.LatexCode)
	if err != nil {
		s.log.Error("compilation failed", err)
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFilename(req.Filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	w.Header().Set("X-Page-Count", strconv.Itoa(result.PageCount))
	w.Write(result.PDF)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	formats := parser.List()
	templates := make([]map[string]string, 0, len(formats))
	for _, f := range formats {
		templates = append(templates, map[string]string{
			"id":          string(f.ID()),
			"name":        f.Name(),
			"description": f.Description(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"latex_available": s.compiler != nil && s.compiler.Available(),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeAppError(w, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, code types.ErrorCode, msg string, status int) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"code":    code,
		"error":   msg,
	})
}

// writeAppError maps an engine error to an HTTP status. Anything
// without an AppError in its chain is treated as a bad request body.
func writeAppError(w http.ResponseWriter, err error) {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		jsonError(w, types.ErrInvalidInput, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case types.ErrInvalidInput, types.ErrFormatUnknown:
		status = http.StatusBadRequest
	case types.ErrParse, types.ErrBraceMismatch, types.ErrCompile:
		status = http.StatusUnprocessableEntity
	case types.ErrConfig:
		status = http.StatusServiceUnavailable
	}
	jsonError(w, appErr.Code, appErr.Error(), status)
}
