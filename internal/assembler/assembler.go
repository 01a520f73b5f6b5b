// Package assembler reassembles a filtered document from parsed
// blocks. Assembly is pure string concatenation in original document
// order: no re-parsing, no regex rewriting, no post-hoc repair.
package assembler

import (
	"sort"
	"strings"

	"resumax/internal/logger"
	"resumax/internal/types"
)

// Assemble concatenates the selected blocks of a parsed document into
// a complete LaTeX string. Preamble and closing are always emitted
// verbatim; sections are separated by a blank line, restoring the
// paragraph break the splitter trimmed off. Sections are walked in
// section_info order, never in map order; within a section, requested
// item indices are re-sorted into document order, so the result is
// independent of selection ordering. A key absent from selections
// defaults to fully selected; stale or unknown keys are ignored.
func Assemble(parsed *types.ParsedData, selections Selections) string {
	parts := make([]string, 0, len(parsed.SectionInfo)+2)
	if parsed.LatexBlocks.Preamble != "" {
		parts = append(parts, parsed.LatexBlocks.Preamble)
	}

	for _, info := range parsed.SectionInfo {
		key := types.NormalizeSectionKey(info.Title)
		block, ok := parsed.LatexBlocks.Sections[key.String()]
		if !ok {
			continue
		}

		var section string
		if block.HasItems && len(block.Items) > 0 {
			section = complexSection(block, selections, key)
		} else {
			section = simpleSection(block, selections, key)
		}
		if section != "" {
			parts = append(parts, section)
		}
	}

	if parsed.LatexBlocks.Closing != "" {
		parts = append(parts, parsed.LatexBlocks.Closing)
	}

	filtered := strings.Join(parts, "\n\n")
	logger.Debug("assembled filtered document",
		logger.Int("parts", len(parts)),
		logger.Int("chars", len(filtered)))
	return filtered
}

// simpleSection emits the whole section verbatim unless it was
// explicitly deselected.
func simpleSection(block types.SectionBlock, selections Selections, key types.SectionKey) string {
	if sel, ok := selections[key]; ok && !sel.Enabled() {
		return ""
	}
	return block.FullContent
}

// complexSection rebuilds the section from its header, optional
// wrapper, and the selected items in document order. A disabled
// section or an empty item set omits the section entirely, wrapper
// included.
func complexSection(block types.SectionBlock, selections Selections, key types.SectionKey) string {
	indices := selectedIndices(block, selections, key)
	if indices == nil {
		return ""
	}

	itemText := make(map[int]string, len(block.Items))
	for _, item := range block.Items {
		itemText[item.Index] = item.Text
	}

	var texts []string
	for _, idx := range indices {
		if text, ok := itemText[idx]; ok {
			texts = append(texts, text)
		} else {
			logger.Debug("stale item index ignored",
				logger.String("section", key.String()),
				logger.Int("index", idx))
		}
	}
	if len(texts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(texts)+4)
	lines = append(lines, strings.TrimRight(block.SectionHeader, " \t\n"))
	if block.Wrapper != nil {
		lines = append(lines, block.Wrapper.OpenCommand)
	}
	// Blank line between items; none after the last one.
	lines = append(lines, strings.Join(texts, "\n\n"))
	if block.Wrapper != nil {
		lines = append(lines, block.Wrapper.CloseCommand)
	}
	if block.Trailing != "" {
		lines = append(lines, block.Trailing)
	}
	return strings.Join(lines, "\n")
}

// selectedIndices resolves the selection for a complex section into
// item indices sorted in document order. Returns nil when the section
// is omitted entirely.
func selectedIndices(block types.SectionBlock, selections Selections, key types.SectionKey) []int {
	sel, ok := selections[key]
	if !ok {
		// Absent key: fully selected.
		indices := make([]int, 0, len(block.Items))
		for _, item := range block.Items {
			indices = append(indices, item.Index)
		}
		sort.Ints(indices)
		return indices
	}

	if !sel.Enabled() {
		return nil
	}

	if !sel.IsComplex() {
		// A bare boolean on a complex section selects everything.
		indices := make([]int, 0, len(block.Items))
		for _, item := range block.Items {
			indices = append(indices, item.Index)
		}
		sort.Ints(indices)
		return indices
	}

	if len(sel.Items()) == 0 {
		return nil
	}

	// Selection order is never trusted; re-sort into document order
	// and drop duplicates.
	seen := make(map[int]bool, len(sel.Items()))
	indices := make([]int, 0, len(sel.Items()))
	for _, idx := range sel.Items() {
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)
	return indices
}
