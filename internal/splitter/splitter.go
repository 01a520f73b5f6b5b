// Package splitter decomposes a parsed resume document into reusable
// blocks: a verbatim preamble, per-section blocks with item spans, and
// a verbatim closing. Section spans are recovered with the same anchor
// patterns the format parser used, so the decomposition jointly covers
// the document between preamble and closing without overlap.
package splitter

import (
	"regexp"
	"strings"

	"resumax/internal/logger"
	"resumax/internal/parser"
	"resumax/internal/types"
)

// wrapperEnvironments is the fixed allow-list of environments whose
// begin/end markup is emitted conditionally, based on whether any
// contained item survives filtering. Everything else (itemize,
// enumerate, description, unknown environments) is structural and
// preserved verbatim inside its owning block. Kept as an explicit,
// auditable list; wrapper-ness is never inferred.
var wrapperEnvironments = []string{"multicols", "tabular", "minipage", "columns"}

var (
	beginEnvPattern = regexp.MustCompile(`\\begin\{([^}]+)\}(?:\{[^}]*\})?`)
	endDocPattern   = regexp.MustCompile(`\\end\s*\{\s*document\s*\}`)
)

// Options tunes the splitter per format.
type Options struct {
	// Lookback is the backward scan window, in characters, used to
	// capture the command introducing an item. Zero means the
	// format's default.
	Lookback int
}

// Split decomposes the document into LatexBlocks using the section
// structure produced by the format parser. A document with no
// locatable sections degrades to preamble-only blocks.
func Split(latex string, info []types.SectionInfo, format parser.Format, opts Options) types.LatexBlocks {
	lookback := opts.Lookback
	if lookback <= 0 {
		lookback = format.Lookback()
	}

	positions := locateSections(latex, info, format)
	if len(positions) == 0 {
		logger.Warn("no section anchors located, treating document as preamble only",
			logger.String("format", string(format.ID())))
		return types.LatexBlocks{
			Preamble: latex,
			Sections: map[string]types.SectionBlock{},
		}
	}

	blocks := types.LatexBlocks{
		Preamble: strings.TrimRight(latex[:positions[0].start], " \t\n"),
		Sections: make(map[string]types.SectionBlock, len(positions)),
	}

	for i, pos := range positions {
		sectionEnd := len(latex)
		if i+1 < len(positions) {
			sectionEnd = positions[i+1].start
		}
		content := latex[pos.start:sectionEnd]

		// The last section span still contains the document
		// terminator; split it off into the closing block.
		if i == len(positions)-1 {
			if m := endDocPattern.FindStringIndex(content); m != nil {
				blocks.Closing = content[m[0]:]
				content = content[:m[0]]
			} else {
				logger.Warn("no \\end{document} found after last section")
			}
		}

		// Blocks are stored trimmed; the assembler reinserts the
		// blank line separating sections.
		content = strings.TrimRight(content, " \t\n")

		block := types.SectionBlock{
			Key:           types.NormalizeSectionKey(pos.title).String(),
			Title:         pos.title,
			SectionHeader: content[:headerSpan(content, pos.matchLen)],
			FullContent:   content,
			HasItems:      len(pos.subsections) > 0,
		}

		if block.HasItems {
			extractItems(&block, content, pos.subsections, lookback)
		}

		blocks.Sections[block.Key] = block
	}

	logger.Debug("split document into blocks",
		logger.Int("sections", len(blocks.Sections)),
		logger.Int("preambleLen", len(blocks.Preamble)),
		logger.Int("closingLen", len(blocks.Closing)))

	return blocks
}

// sectionPosition is a located section anchor.
type sectionPosition struct {
	title       string
	subsections []string
	start       int
	matchLen    int
}

// locateSections re-finds each parsed section's anchor in the raw
// document. Sections whose anchor cannot be located are dropped with a
// warning; the synthetic "Unlabeled" section has no anchor and its
// orphan items stay inside the preamble.
func locateSections(latex string, info []types.SectionInfo, format parser.Format) []sectionPosition {
	var positions []sectionPosition
	for _, section := range info {
		m := format.AnchorPattern(section.Title).FindStringIndex(latex)
		if m == nil {
			if section.Title != "Unlabeled" {
				logger.Warn("section anchor not found in document",
					logger.String("title", section.Title))
			}
			continue
		}
		positions = append(positions, sectionPosition{
			title:       section.Title,
			subsections: section.Subsections,
			start:       m[0],
			matchLen:    m[1] - m[0],
		})
	}

	// section_info arrives in document order, but re-located anchors
	// decide the authoritative span order.
	for i := 1; i < len(positions); i++ {
		for j := i; j > 0 && positions[j].start < positions[j-1].start; j-- {
			positions[j], positions[j-1] = positions[j-1], positions[j]
		}
	}
	return positions
}

// headerSpan returns the length of the section header at the start of
// content: the anchor command, its trailing newline run, and an
// optional \\ line-break token with its newline.
func headerSpan(content string, matchLen int) int {
	end := matchLen
	for end < len(content) && content[end] == '\n' {
		end++
	}
	if end+1 < len(content) && content[end] == '\\' && content[end+1] == '\\' {
		end += 2
		if end < len(content) && content[end] == '\n' {
			end++
		}
	}
	return end
}

// extractItems fills the block's item list. When a wrapper environment
// encloses the items, its begin/end markup is recorded separately and
// item spans are confined to the wrapper body, so \end{...} can never
// be swallowed by the last item.
func extractItems(block *types.SectionBlock, content string, subsections []string, lookback int) {
	region := content
	if wrapper, bodyStart, bodyEnd, trailing := detectWrapper(content); wrapper != nil {
		block.Wrapper = wrapper
		block.Trailing = trailing
		region = content[bodyStart:bodyEnd]
		logger.Debug("detected wrapper environment",
			logger.String("section", block.Key),
			logger.String("env", wrapper.Name))
	}

	items := make([]types.Item, 0, len(subsections))
	bounds := itemBounds(region, subsections, lookback)
	for i, b := range bounds {
		if b.textStart < 0 {
			logger.Warn("subsection text not found in section content",
				logger.String("section", block.Key),
				logger.String("label", truncateLabel(subsections[i])))
			continue
		}
		text := strings.TrimRight(strings.TrimLeft(region[b.itemStart:b.itemEnd], "\n"), " \t\n")
		if text == "" {
			continue
		}
		if b.missingCommand {
			logger.Debug("no introducing command within lookback window",
				logger.String("section", block.Key),
				logger.Int("item", i))
		}
		items = append(items, types.Item{
			Index:          i,
			Text:           text,
			MissingCommand: b.missingCommand,
		})
	}
	block.Items = items
}

// itemBound is the resolved span of one item inside the item region.
type itemBound struct {
	textStart      int // -1 when the label was not found
	itemStart      int
	itemEnd        int
	missingCommand bool
}

// itemBounds resolves each subsection label to a span. The span starts
// at the introducing command found by a bounded backward scan from the
// label text, and ends at the next item's command or the region end.
func itemBounds(region string, subsections []string, lookback int) []itemBound {
	bounds := make([]itemBound, len(subsections))

	// First pass: locate label text and command start of every item.
	searchFrom := 0
	for i, label := range subsections {
		bounds[i].textStart = -1
		m := findLabel(region, label, searchFrom)
		if m == nil {
			continue
		}
		bounds[i].textStart = m[0]
		bounds[i].itemStart, bounds[i].missingCommand = commandStart(region, m[0], lookback)
		searchFrom = m[1]
	}

	// Second pass: each item ends where the next located item begins.
	for i := range bounds {
		if bounds[i].textStart < 0 {
			continue
		}
		bounds[i].itemEnd = len(region)
		for j := i + 1; j < len(bounds); j++ {
			if bounds[j].textStart < 0 {
				continue
			}
			next := bounds[j].itemStart
			if next <= bounds[i].itemStart {
				// The next item's lookback reached into this item;
				// fall back to its label position.
				next = bounds[j].textStart
			}
			bounds[i].itemEnd = next
			break
		}
	}
	return bounds
}

// findLabel locates a cleaned subsection label in the region at or
// after from, tolerating whitespace differences. Falls back to the
// label's first three words when the full text does not match.
func findLabel(region string, label string, from int) []int {
	cleaned := strings.Join(strings.Fields(label), " ")
	if cleaned == "" {
		return nil
	}

	if m := labelPattern(cleaned).FindStringIndex(region[from:]); m != nil {
		return []int{from + m[0], from + m[1]}
	}

	words := strings.Fields(cleaned)
	if len(words) > 3 {
		if m := labelPattern(strings.Join(words[:3], " ")).FindStringIndex(region[from:]); m != nil {
			return []int{from + m[0], from + m[1]}
		}
	}
	return nil
}

func labelPattern(cleaned string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(cleaned)
	return regexp.MustCompile(`(?i)` + strings.ReplaceAll(quoted, " ", `\s+`))
}

// commandStart scans backward from the label text for the LaTeX
// command introducing the item, within the bounded lookback window.
// Returns the item start offset and whether no command was found.
func commandStart(region string, textStart int, lookback int) (int, bool) {
	limit := textStart - lookback
	if limit < 0 {
		limit = 0
	}
	window := region[limit:textStart]

	lastBold := strings.LastIndex(window, `\textbf{`)
	lastItem := strings.LastIndex(window, `\item`)
	lastNewline := strings.LastIndex(window, "\n")

	switch {
	case lastBold != -1 && lastBold > lastNewline:
		return limit + lastBold, false
	case lastItem != -1 && lastItem > lastNewline:
		return limit + lastItem, false
	case lastNewline != -1:
		return limit + lastNewline + 1, true
	}
	return textStart, true
}

// detectWrapper checks whether the first environment opened in the
// section is on the wrapper allow-list. Returns the wrapper, the item
// region bounds inside it, and any markup trailing the wrapper's end.
func detectWrapper(content string) (*types.EnvironmentWrapper, int, int, string) {
	m := beginEnvPattern.FindStringSubmatchIndex(content)
	if m == nil {
		return nil, 0, 0, ""
	}

	name := content[m[2]:m[3]]
	if !isWrapperEnvironment(name) {
		return nil, 0, 0, ""
	}

	endPattern := regexp.MustCompile(`\\end\{` + regexp.QuoteMeta(name) + `\}`)
	end := endPattern.FindStringIndex(content)
	if end == nil {
		return nil, 0, 0, ""
	}

	wrapper := &types.EnvironmentWrapper{
		Name:         name,
		OpenCommand:  content[m[0]:m[1]],
		CloseCommand: content[end[0]:end[1]],
	}
	trailing := strings.TrimSpace(content[end[1]:])
	return wrapper, m[1], end[0], trailing
}

func isWrapperEnvironment(name string) bool {
	for _, env := range wrapperEnvironments {
		if env == name {
			return true
		}
	}
	return false
}

func truncateLabel(label string) string {
	if len(label) <= 50 {
		return label
	}
	return label[:50] + "..."
}
