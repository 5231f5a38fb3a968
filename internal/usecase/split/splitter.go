package split

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	chunkSize    = 800
	chunkOverlap = 200
)

// fixedSeparators drive the recursive splitter: coarse boundaries first,
// then a hard character cut as the last resort.
var fixedSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// semanticSeparators are structural markers, in priority order. The first
// one present in the text becomes the hard segment boundary.
var semanticSeparators = []string{
	"\n\n",
	"Section", "Chapter", "Title", "Subtitle", "Heading", "Subheading",
	"Appendix", "Figure", "Table", "List", "Item", "Point", "Step",
	"Example", "Note", "Warning", "Tip",
	". ",
}

// splitFixed is recursive character splitting with overlap. Deterministic:
// the same text always yields the same chunks.
func splitFixed(text string) ([]string, error) {
	sp := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithSeparators(fixedSeparators),
	)
	return sp.SplitText(text)
}

// splitSemantic segments the text at its highest-priority structural marker,
// then bounds each segment with the fixed splitter. Segmentation happens even
// when the whole text fits in one chunk: a structural boundary always wins
// over the size target. Text with no marker degrades to fixed splitting.
func splitSemantic(text string) ([]string, error) {
	sep := ""
	for _, s := range semanticSeparators {
		if strings.Contains(text, s) {
			sep = s
			break
		}
	}
	if sep == "" {
		return splitFixed(text)
	}

	var chunks []string
	for _, segment := range strings.Split(text, sep) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		parts, err := splitFixed(segment)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, parts...)
	}
	return chunks, nil
}
