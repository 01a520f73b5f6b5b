package assembler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumax/internal/parser"
	"resumax/internal/splitter"
	"resumax/internal/types"
	"resumax/internal/validator"
)

const atsSample = `\documentclass{article}
\begin{document}

\textbf{\large PROFESSIONAL SUMMARY}\\
Seasoned backend engineer with ten years of experience.

\textbf{\large EDUCATION}\\
\textbf{MIT} BSc Computer Science\\
2010 -- 2014

\textbf{Stanford} MSc Computer Science\\
2014 -- 2016

\textbf{\large WORK EXPERIENCE}\\
\textbf{Acme Corp} Senior Engineer\\
Built the billing platform.

\textbf{Globex} Staff Engineer\\
Runs the data plane.

\end{document}
`

func parseSample(t *testing.T, latex string, id types.FormatID) *types.ParsedData {
	t.Helper()
	format, err := parser.Get(id)
	require.NoError(t, err)
	info := format.Parse(latex)
	require.NotEmpty(t, info)
	return &types.ParsedData{
		FormatID:      id,
		LatexBlocks:   splitter.Split(latex, info, format, splitter.Options{}),
		SectionInfo:   info,
		OriginalLatex: latex,
	}
}

func TestAssembleFullSelection(t *testing.T) {
	parsed := parseSample(t, atsSample, types.FormatATS)

	out := Assemble(parsed, nil)

	assert.True(t, strings.HasPrefix(out, `\documentclass{article}`))
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), `\end{document}`))
	for _, want := range []string{
		"PROFESSIONAL SUMMARY", "EDUCATION", "WORK EXPERIENCE",
		"MIT", "Stanford", "Acme Corp", "Globex",
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, validator.CheckBraces(out).Balanced)
}

func TestAssembleRoundTrip(t *testing.T) {
	// Reassembling a fully selected document and re-parsing the
	// result is a fixed point: the second assembly is byte-identical.
	parsed := parseSample(t, atsSample, types.FormatATS)
	first := Assemble(parsed, nil)

	// For a document whose sections are separated by single blank
	// lines, full reassembly reproduces the input exactly.
	assert.Equal(t, atsSample, first)

	reparsed := parseSample(t, first, types.FormatATS)
	second := Assemble(reparsed, nil)

	assert.Equal(t, first, second)
}

func TestAssembleItemSubset(t *testing.T) {
	parsed := parseSample(t, atsSample, types.FormatATS)

	out := Assemble(parsed, Selections{
		"education": Complex(true, []int{0}),
	})

	assert.Contains(t, out, "MIT")
	assert.NotContains(t, out, "Stanford")
	// Untouched sections stay complete.
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "Globex")
	assert.True(t, validator.CheckBraces(out).Balanced)
}

func TestAssembleLastItemOmitted(t *testing.T) {
	parsed := parseSample(t, atsSample, types.FormatATS)

	out := Assemble(parsed, Selections{
		"work_experience": Complex(true, []int{0}),
	})

	assert.Contains(t, out, "Acme Corp")
	assert.NotContains(t, out, "Globex")
	assert.Contains(t, out, `\end{document}`)
	assert.True(t, validator.CheckBraces(out).Balanced)
}

func TestAssembleSelectionOrderInvariance(t *testing.T) {
	parsed := parseSample(t, atsSample, types.FormatATS)

	a := Assemble(parsed, Selections{"education": Complex(true, []int{1, 0})})
	b := Assemble(parsed, Selections{"education": Complex(true, []int{0, 1})})
	c := Assemble(parsed, Selections{"education": Complex(true, []int{0, 1, 1, 0})})

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)

	// Items appear in document order regardless of request order.
	assert.Less(t, strings.Index(a, "MIT"), strings.Index(a, "Stanford"))
}

func TestAssembleSimpleSectionDisabled(t *testing.T) {
	parsed := parseSample(t, atsSample, types.FormatATS)

	out := Assemble(parsed, Selections{
		"professional_summary": Simple(false),
	})

	assert.NotContains(t, out, "PROFESSIONAL SUMMARY")
	assert.Contains(t, out, "EDUCATION")
}

func TestAssembleComplexSectionDisabled(t *testing.T) {
	parsed := parseSample(t, atsSample, types.FormatATS)

	tests := []struct {
		name string
		sel  Selection
	}{
		{"disabled object", Complex(false, []int{0, 1})},
		{"bare false", Simple(false)},
		{"enabled with no items", Complex(true, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Assemble(parsed, Selections{"education": tt.sel})
			assert.NotContains(t, out, "EDUCATION")
			assert.NotContains(t, out, "MIT")
			assert.Contains(t, out, "WORK EXPERIENCE")
		})
	}
}

func TestAssembleBareBooleanOnComplexSection(t *testing.T) {
	parsed := parseSample(t, atsSample, types.FormatATS)

	out := Assemble(parsed, Selections{"education": Simple(true)})
	assert.Contains(t, out, "MIT")
	assert.Contains(t, out, "Stanford")
}

func TestAssembleStaleKeysAndIndices(t *testing.T) {
	parsed := parseSample(t, atsSample, types.FormatATS)

	out := Assemble(parsed, Selections{
		"references": Simple(false),
		"education":  Complex(true, []int{0, 99}),
	})

	// A key with no matching block is ignored.
	assert.Contains(t, out, "PROFESSIONAL SUMMARY")
	// A stale index is dropped, the valid one survives.
	assert.Contains(t, out, "MIT")
	assert.NotContains(t, out, "Stanford")
}

func TestAssembleWrapperOmittedWithAllItems(t *testing.T) {
	latex := `\documentclass{article}
\begin{document}

\section{Technical Skills}
\begin{multicols}{2}
\textbf{Languages} Go, Python, Rust

\textbf{Infrastructure} AWS, Kubernetes
\end{multicols}

\end{document}
`
	parsed := parseSample(t, latex, types.FormatTwoColumn)

	kept := Assemble(parsed, Selections{"technical_skills": Complex(true, []int{1})})
	assert.Contains(t, kept, `\begin{multicols}{2}`)
	assert.Contains(t, kept, `\end{multicols}`)
	assert.Contains(t, kept, "Infrastructure")
	assert.NotContains(t, kept, "Languages")

	dropped := Assemble(parsed, Selections{"technical_skills": Complex(true, []int{})})
	assert.NotContains(t, dropped, "multicols")
	assert.NotContains(t, dropped, "Technical Skills")
	assert.True(t, validator.CheckBraces(dropped).Balanced)
}

func TestAssembleItemsSeparatedByBlankLine(t *testing.T) {
	parsed := parseSample(t, atsSample, types.FormatATS)

	out := Assemble(parsed, nil)
	idx := strings.Index(out, "2010 -- 2014")
	require.GreaterOrEqual(t, idx, 0)
	rest := out[idx:]
	assert.True(t, strings.HasPrefix(rest, "2010 -- 2014\n\n\\textbf{Stanford}"),
		"items should be separated by exactly one blank line, got %q", rest[:60])
}
