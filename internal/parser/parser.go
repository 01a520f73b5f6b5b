// Package parser extracts the ordered section structure of a resume
// document. Each template family provides its own Format implementation
// keyed by anchor-command patterns; the splitter reuses the same
// anchors to locate section spans.
package parser

import (
	"regexp"
	"sort"
	"strings"

	"resumax/internal/logger"
	"resumax/internal/types"
)

// DefaultLookback is the backward scan window, in characters, used to
// capture the command introducing an item span. Tunable per format.
const DefaultLookback = 50

// Format is one template family's parser. Implementations are
// stateless.
type Format interface {
	// ID returns the stable format identifier.
	ID() types.FormatID
	// Name returns the display name for the template picker.
	Name() string
	// Description returns a short description for the template picker.
	Description() string
	// Parse extracts the ordered section structure from raw LaTeX.
	// An empty result is not an error: the caller treats the document
	// as header+closing only.
	Parse(latex string) []types.SectionInfo
	// AnchorPattern returns the regexp locating the section anchor
	// command for the given title. The splitter uses it to recover
	// exact section spans.
	AnchorPattern(title string) *regexp.Regexp
	// Lookback returns the backward scan window for item command
	// capture.
	Lookback() int
}

var registry = map[types.FormatID]Format{}

// Register adds a format to the registry. Called from format init
// functions.
func Register(f Format) {
	registry[f.ID()] = f
}

// Get returns the format registered under id.
func Get(id types.FormatID) (Format, error) {
	f, ok := registry[id]
	if !ok {
		return nil, types.NewAppErrorWithDetails(types.ErrFormatUnknown,
			"unknown format id", string(id), nil)
	}
	return f, nil
}

// List returns all registered formats in a stable order.
func List() []Format {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	formats := make([]Format, 0, len(ids))
	for _, id := range ids {
		formats = append(formats, registry[types.FormatID(id)])
	}
	return formats
}

var (
	detectATSPattern     = regexp.MustCompile(`\\textbf\s*\{\s*\\large\s+[A-Z]`)
	detectCoolPattern    = regexp.MustCompile(`\\NewPart\s*\{`)
	detectSectionPattern = regexp.MustCompile(`\\section\s*\{`)
)

// Detect guesses the template family from the anchor commands present
// in the document. Used when the caller supplies no template hint.
func Detect(latex string) types.FormatID {
	switch {
	case detectATSPattern.MatchString(latex):
		return types.FormatATS
	case detectCoolPattern.MatchString(latex):
		return types.FormatCool
	case detectSectionPattern.MatchString(latex):
		// Both section-anchored templates use \section; the two-column
		// variant is recognizable by its multicols layout.
		if strings.Contains(latex, `\begin{multicols}`) {
			return types.FormatTwoColumn
		}
		return types.FormatModern
	}

	logger.Warn("could not detect template format, defaulting to ATS")
	return types.FormatATS
}

// anchor is one located anchor command: the cleaned argument text and
// the position of the command's backslash in the document.
type anchor struct {
	content string
	pos     int
}

// scanCommandArgs finds every occurrence of the command-start pattern
// (which must end at an opening brace) and extracts its brace-balanced
// argument. Nested braces are kept in the content.
func scanCommandArgs(text string, commandStart *regexp.Regexp) []anchor {
	var results []anchor

	for _, loc := range commandStart.FindAllStringIndex(text, -1) {
		depth := 1
		var sb strings.Builder
		i := loc[1]
		for i < len(text) && depth > 0 {
			switch text[i] {
			case '{':
				depth++
				sb.WriteByte('{')
			case '}':
				depth--
				if depth > 0 {
					sb.WriteByte('}')
				}
			default:
				sb.WriteByte(text[i])
			}
			i++
		}

		if content := strings.TrimSpace(sb.String()); content != "" {
			results = append(results, anchor{content: content, pos: loc[0]})
		}
	}

	return results
}

// assembleSections runs the two-stage section discovery shared by all
// formats: known template sections first, then any custom sections in
// the same anchor style, deduplicated by title and re-sorted into
// document order. subsectionsFor yields the subsection labels for the
// span [start, end) owned by a section.
func assembleSections(latex string, anchors []anchor, known []string,
	subsectionsFor func(title string, start, end int) []string) []types.SectionInfo {

	if len(anchors) == 0 {
		return nil
	}

	sorted := make([]anchor, len(anchors))
	copy(sorted, anchors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].pos < sorted[j].pos })

	knownSet := map[string]bool{}
	for _, title := range known {
		knownSet[title] = true
	}

	spanEnd := func(pos int) int {
		for i, a := range sorted {
			if a.pos == pos && i+1 < len(sorted) {
				return sorted[i+1].pos
			}
		}
		return len(latex)
	}

	// Stage 1: sections from the hardcoded template list.
	var sections []types.SectionInfo
	order := map[string]int{}
	detected := map[string]bool{}
	for _, a := range sorted {
		if !knownSet[a.content] {
			continue
		}
		sections = append(sections, types.SectionInfo{
			Title:       a.content,
			Subsections: subsectionsFor(a.content, a.pos, spanEnd(a.pos)),
		})
		if _, ok := order[a.content]; !ok {
			order[a.content] = a.pos
		}
		detected[a.content] = true
	}

	// Stage 2: custom sections following the same anchor format.
	for _, a := range sorted {
		if detected[a.content] {
			continue
		}
		sections = append(sections, types.SectionInfo{
			Title:       a.content,
			Subsections: subsectionsFor(a.content, a.pos, spanEnd(a.pos)),
		})
		if _, ok := order[a.content]; !ok {
			order[a.content] = a.pos
		}
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return order[sections[i].Title] < order[sections[j].Title]
	})

	return sections
}

// prependOrphans groups subsection labels found before the first
// section anchor under a synthetic "Unlabeled" section.
func prependOrphans(sections []types.SectionInfo, orphans []string) []types.SectionInfo {
	if len(orphans) == 0 {
		return sections
	}
	logger.Debug("orphaned subsections before first section",
		logger.Int("count", len(orphans)))
	unlabeled := types.SectionInfo{Title: "Unlabeled", Subsections: orphans}
	return append([]types.SectionInfo{unlabeled}, sections...)
}

// firstAnchorPos returns the smallest anchor position, or -1 when no
// anchors exist.
func firstAnchorPos(anchors []anchor) int {
	pos := -1
	for _, a := range anchors {
		if pos == -1 || a.pos < pos {
			pos = a.pos
		}
	}
	return pos
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// escapeTitle builds the whitespace-tolerant regex fragment matching a
// section title inside an anchor command.
func escapeTitle(title string) string {
	return whitespaceRun.ReplaceAllString(regexp.QuoteMeta(title), `\s+`)
}
