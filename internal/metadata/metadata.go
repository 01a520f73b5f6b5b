// Package metadata derives the UI-facing section metadata from parsed
// blocks: whether a section is selected wholesale (simple) or per item
// (complex), its display label, and its item count.
package metadata

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"resumax/internal/logger"
	"resumax/internal/types"
)

var titleCaser = cases.Title(language.English)

// Generate builds the per-key metadata map for the selection UI. The
// synthetic header block is mandatory content and never appears in the
// result.
func Generate(parsed *types.ParsedData) map[string]types.SectionMetadata {
	meta := make(map[string]types.SectionMetadata, len(parsed.LatexBlocks.Sections))

	for key, block := range parsed.LatexBlocks.Sections {
		if key == "header" {
			continue
		}

		label := block.Title
		if label == "" {
			label = titleCaser.String(strings.ReplaceAll(key, "_", " "))
		}

		if block.HasItems && len(block.Items) > 0 {
			meta[key] = types.SectionMetadata{
				Type:      types.SectionComplex,
				Label:     label,
				ItemCount: len(block.Items),
			}
		} else {
			meta[key] = types.SectionMetadata{
				Type:  types.SectionSimple,
				Label: label,
			}
		}
	}

	logger.Debug("generated section metadata", logger.Int("sections", len(meta)))
	return meta
}
