package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumax/internal/assembler"
	"resumax/internal/types"
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

\end{document}
`

func newEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	return eng
}

func TestParseSections(t *testing.T) {
	eng := newEngine(t)

	result, err := eng.ParseSections(atsSample, "")
	require.NoError(t, err)

	assert.Equal(t, types.FormatATS, result.ParsedData.FormatID)
	assert.Equal(t, atsSample, result.ParsedData.OriginalLatex)
	assert.Len(t, result.ParsedData.SectionInfo, 2)
	assert.Len(t, result.Metadata, 2)
	assert.Equal(t, types.SectionComplex, result.Metadata["education"].Type)
}

func TestParseSectionsExplicitTemplate(t *testing.T) {
	eng := newEngine(t)

	result, err := eng.ParseSections(atsSample, "ATS")
	require.NoError(t, err)
	assert.Equal(t, types.FormatATS, result.ParsedData.FormatID)
}

func TestParseSectionsEmptyInput(t *testing.T) {
	eng := newEngine(t)

	for _, latex := range []string{"", "   \n\t  "} {
		_, err := eng.ParseSections(latex, "")
		require.Error(t, err)
		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrInvalidInput, appErr.Code)
	}
}

func TestParseSectionsUnknownTemplate(t *testing.T) {
	eng := newEngine(t)

	_, err := eng.ParseSections(atsSample, "fancy")
	require.Error(t, err)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrFormatUnknown, appErr.Code)
}

func TestFilterLatex(t *testing.T) {
	eng := newEngine(t)

	parsed, err := eng.ParseSections(atsSample, "")
	require.NoError(t, err)

	result, err := eng.FilterLatex(parsed.ParsedData, assembler.Selections{
		"education": assembler.Complex(true, []int{0}),
	})
	require.NoError(t, err)

	assert.True(t, result.Brace.Balanced)
	assert.Nil(t, result.DebugFiles)
	assert.Contains(t, result.FilteredLatex, "MIT")
	assert.NotContains(t, result.FilteredLatex, "Stanford")
}

func TestFilterLatexMissingBlocks(t *testing.T) {
	eng := newEngine(t)

	for _, parsed := range []*types.ParsedData{nil, {}} {
		_, err := eng.FilterLatex(parsed, nil)
		require.Error(t, err)
		var appErr *types.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, types.ErrInvalidInput, appErr.Code)
	}
}

func TestFilterLatexBraceMismatch(t *testing.T) {
	debugDir := filepath.Join(t.TempDir(), "debug")
	eng, err := New(debugDir, nil)
	require.NoError(t, err)

	// A block with a dangling brace reaches the output unrepaired
	// and triggers the debug artifact pair.
	parsed := &types.ParsedData{
		FormatID: types.FormatATS,
		LatexBlocks: types.LatexBlocks{
			Preamble: `\documentclass{article`,
			Sections: map[string]types.SectionBlock{},
		},
		OriginalLatex: `\documentclass{article`,
	}

	result, err := eng.FilterLatex(parsed, nil)
	require.NoError(t, err)

	assert.False(t, result.Brace.Balanced)
	require.NotNil(t, result.DebugFiles)
	for _, path := range []string{result.DebugFiles.FilteredPath, result.DebugFiles.OriginalPath} {
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	}
}

func TestLookbackOverride(t *testing.T) {
	eng, err := New(t.TempDir(), map[types.FormatID]int{types.FormatATS: 2})
	require.NoError(t, err)

	result, err := eng.ParseSections(atsSample, "")
	require.NoError(t, err)

	items := result.ParsedData.LatexBlocks.Sections["education"].Items
	require.Len(t, items, 2)
	// A two-character window cannot reach the introducing command.
	assert.True(t, items[0].MissingCommand)
}
