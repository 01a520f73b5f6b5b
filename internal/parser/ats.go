package parser

import (
	"regexp"

	"resumax/internal/types"
)

// Known sections of the ATS template.
var atsKnownSections = []string{
	"PROFESSIONAL SUMMARY",
	"EDUCATION",
	"WORK EXPERIENCE",
	"TECHNICAL SKILLS",
	"PROJECTS",
	"ADDITIONAL EXPERIENCE",
	"HONORS AND AWARDS",
	"ELECTIVE COURSES",
	"POSITIONS OF RESPONSIBILITY",
	"EXTRACURRICULAR ACTIVITIES",
}

var (
	// Section anchors carry \large; plain \textbf marks subsections.
	atsSectionStart    = regexp.MustCompile(`\\textbf\s*\{\s*\\large\s+`)
	atsSubsectionStart = regexp.MustCompile(`\\textbf\s*\{`)
)

// atsFormat parses the ATS template: sections are
// \textbf{\large TITLE}, subsections plain \textbf{...} headers.
type atsFormat struct{}

func init() { Register(atsFormat{}) }

func (atsFormat) ID() types.FormatID { return types.FormatATS }

func (atsFormat) Name() string { return "ATS" }

func (atsFormat) Description() string {
	return "Plain single-column layout optimized for applicant tracking systems"
}

func (atsFormat) Lookback() int { return DefaultLookback }

func (atsFormat) AnchorPattern(title string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\\textbf\s*\{\s*\\large\s+` + escapeTitle(title) + `\s*\}`)
}

func (atsFormat) Parse(latex string) []types.SectionInfo {
	sectionAnchors := scanCommandArgs(latex, atsSectionStart)
	if len(sectionAnchors) == 0 {
		return nil
	}

	// Every section anchor also matches the subsection pattern; drop
	// those positions so only true subsections remain.
	sectionPos := map[int]bool{}
	for _, a := range sectionAnchors {
		sectionPos[a.pos] = true
	}
	var subsections []anchor
	for _, a := range scanCommandArgs(latex, atsSubsectionStart) {
		if !sectionPos[a.pos] {
			subsections = append(subsections, a)
		}
	}

	subsectionsFor := func(_ string, start, end int) []string {
		var labels []string
		for _, s := range subsections {
			if s.pos > start && s.pos < end {
				labels = append(labels, s.content)
			}
		}
		return labels
	}

	sections := assembleSections(latex, sectionAnchors, atsKnownSections, subsectionsFor)

	firstPos := firstAnchorPos(sectionAnchors)
	var orphans []string
	for _, s := range subsections {
		if s.pos < firstPos {
			orphans = append(orphans, s.content)
		}
	}
	return prependOrphans(sections, orphans)
}
