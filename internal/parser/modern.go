package parser

import (
	"regexp"

	"resumax/internal/types"
)

// Known sections of the Modern template.
var modernKnownSections = []string{
	"Professional Summary",
	"Education",
	"Work Experience",
	"Technical Skills",
	"Projects",
	"Certifications",
	"Languages",
	"Achievements",
}

var (
	modernSectionStart = regexp.MustCompile(`\\section\s*\{`)
	modernBoldStart    = regexp.MustCompile(`\\textbf\s*\{`)
	trailingItem       = regexp.MustCompile(`\\item\s*$`)
)

// modernFormat parses the Modern template: \section{...} anchors with
// \textbf{...} subsection headers.
type modernFormat struct{}

func init() { Register(modernFormat{}) }

func (modernFormat) ID() types.FormatID { return types.FormatModern }

func (modernFormat) Name() string { return "Modern" }

func (modernFormat) Description() string {
	return "Clean sectioned layout with bold entry headers"
}

func (modernFormat) Lookback() int { return DefaultLookback }

func (modernFormat) AnchorPattern(title string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\\section\s*\{\s*` + escapeTitle(title) + `\s*\}`)
}

func (modernFormat) Parse(latex string) []types.SectionInfo {
	anchors := scanCommandArgs(latex, modernSectionStart)
	if len(anchors) == 0 {
		return nil
	}

	subsectionsFor := func(title string, start, end int) []string {
		// Prose-only sections have no entry headers; their bold text
		// is emphasis, not structure.
		if title == "Professional Summary" || title == "Achievements" {
			return nil
		}
		return boldHeaders(latex, start, end)
	}

	sections := assembleSections(latex, anchors, modernKnownSections, subsectionsFor)
	return prependOrphans(sections, boldHeaders(latex, 0, firstAnchorPos(anchors)))
}

// boldHeaders extracts \textbf{...} spans in [start, end) that look
// like entry headers. Bold text directly after \item is item content
// and is skipped.
func boldHeaders(latex string, start, end int) []string {
	if start >= end {
		return nil
	}
	region := latex[start:end]

	var headers []string
	for _, a := range scanCommandArgs(region, modernBoldStart) {
		ctxStart := a.pos - DefaultLookback
		if ctxStart < 0 {
			ctxStart = 0
		}
		if trailingItem.MatchString(region[ctxStart:a.pos]) {
			continue
		}
		headers = append(headers, a.content)
	}
	return headers
}
