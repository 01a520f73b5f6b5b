package parser

import (
	"regexp"

	"resumax/internal/types"
)

// Known sections of the two-column template.
var twoColumnKnownSections = []string{
	"Professional Summary",
	"Education",
	"Work Experience",
	"Technical Skills",
	"Projects",
	"Certifications",
	"Interests",
}

// twoColumnFormat parses the two-column template. It shares the
// Modern template's \section and \textbf anchor grammar but lays
// sections out inside multicols, which the splitter treats as a
// wrapper environment.
type twoColumnFormat struct{}

func init() { Register(twoColumnFormat{}) }

func (twoColumnFormat) ID() types.FormatID { return types.FormatTwoColumn }

func (twoColumnFormat) Name() string { return "Two-Column" }

func (twoColumnFormat) Description() string {
	return "Dense two-column layout using multicols"
}

func (twoColumnFormat) Lookback() int { return DefaultLookback }

func (twoColumnFormat) AnchorPattern(title string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\\section\s*\{\s*` + escapeTitle(title) + `\s*\}`)
}

func (twoColumnFormat) Parse(latex string) []types.SectionInfo {
	anchors := scanCommandArgs(latex, modernSectionStart)
	if len(anchors) == 0 {
		return nil
	}

	subsectionsFor := func(title string, start, end int) []string {
		if title == "Professional Summary" {
			return nil
		}
		return boldHeaders(latex, start, end)
	}

	sections := assembleSections(latex, anchors, twoColumnKnownSections, subsectionsFor)
	return prependOrphans(sections, boldHeaders(latex, 0, firstAnchorPos(anchors)))
}
