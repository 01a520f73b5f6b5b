package parser

import (
	"regexp"
	"strings"

	"resumax/internal/types"
)

// Known sections of the cool ("Anti-CV") template. The template
// itself ships with the "Work Experiance" typo.
var coolKnownSections = []string{
	"Key",
	"Education",
	"Work Experiance",
	"Skills",
	"Achievements and Interests",
}

var (
	coolSectionStart = regexp.MustCompile(`\\NewPart\s*\{`)
	coolItemStart    = regexp.MustCompile(`\\item\s*\[[^\]]*\]\s*`)
	coolItemNext     = regexp.MustCompile(`\\item\s*\[`)
	coolEndItemize   = regexp.MustCompile(`\\end\s*\{itemize\}`)
	coolNewPartNext  = regexp.MustCompile(`\\NewPart\s*\{`)
	coolSkillsEntry  = regexp.MustCompile(`\\SkillsEntry\s*\{([^}]+)\}\s*\{([^}]+)\}`)
)

// coolFormat parses the cool template: \NewPart{...} anchors with
// \item[...] entries and \SkillsEntry{}{} skills.
type coolFormat struct{}

func init() { Register(coolFormat{}) }

func (coolFormat) ID() types.FormatID { return types.FormatCool }

func (coolFormat) Name() string { return "Cool" }

func (coolFormat) Description() string {
	return "Sidebar Anti-CV layout with labeled item entries"
}

func (coolFormat) Lookback() int { return DefaultLookback }

func (coolFormat) AnchorPattern(title string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\\NewPart\s*\{\s*` + escapeTitle(title) + `\s*\}`)
}

func (coolFormat) Parse(latex string) []types.SectionInfo {
	anchors := scanCommandArgs(latex, coolSectionStart)
	if len(anchors) == 0 {
		return nil
	}

	subsectionsFor := func(title string, start, end int) []string {
		if title == "Skills" {
			return skillsEntries(latex, start, end)
		}
		return itemLabels(latex, start, end)
	}

	sections := assembleSections(latex, anchors, coolKnownSections, subsectionsFor)
	return prependOrphans(sections, itemLabels(latex, 0, firstAnchorPos(anchors)))
}

// itemLabels extracts display labels from \item[...] entries in
// [start, end). Each label is the entry text up to the next item,
// itemize end, or section anchor, with whitespace collapsed.
func itemLabels(latex string, start, end int) []string {
	if start >= end {
		return nil
	}
	region := latex[start:end]

	var labels []string
	for _, loc := range coolItemStart.FindAllStringIndex(region, -1) {
		rest := region[loc[1]:]

		contentEnd := len(rest)
		for _, boundary := range []*regexp.Regexp{coolItemNext, coolEndItemize, coolNewPartNext} {
			if m := boundary.FindStringIndex(rest); m != nil && m[0] < contentEnd {
				contentEnd = m[0]
			}
		}

		label := strings.TrimSpace(rest[:contentEnd])
		label = whitespaceRun.ReplaceAllString(label, " ")
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// skillsEntries formats \SkillsEntry{Category}{Description} commands
// as "Category: Description" labels.
func skillsEntries(latex string, start, end int) []string {
	if start >= end {
		return nil
	}

	var skills []string
	for _, m := range coolSkillsEntry.FindAllStringSubmatch(latex[start:end], -1) {
		skills = append(skills, strings.TrimSpace(m[1])+": "+strings.TrimSpace(m[2]))
	}
	return skills
}
