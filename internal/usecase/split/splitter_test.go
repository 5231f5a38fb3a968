package split

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

// longText builds a text of distinct numbered words so overlap between
// neighboring chunks is observable.
func longText(words int) string {
	var sb strings.Builder
	for i := 0; i < words; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "word%04d", i)
	}
	return sb.String()
}

func TestSplitFixed_ShortTextSingleChunk(t *testing.T) {
	chunks, err := splitFixed("fo bar bar")
	if err != nil {
		t.Fatalf("splitFixed failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "fo bar bar" {
		t.Errorf("chunk = %q", chunks[0])
	}
}

func TestSplitFixed_BoundsChunkSize(t *testing.T) {
	chunks, err := splitFixed(longText(500))
	if err != nil {
		t.Fatalf("splitFixed failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if utf8.RuneCountInString(c) > chunkSize {
			t.Errorf("chunk %d has %d runes, exceeds %d", i, utf8.RuneCountInString(c), chunkSize)
		}
	}
}

func TestSplitFixed_OverlapCarriesContext(t *testing.T) {
	chunks, err := splitFixed(longText(500))
	if err != nil {
		t.Fatalf("splitFixed failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// The head of each chunk repeats the tail of the previous one.
	firstWord := strings.Fields(chunks[1])[0]
	if !strings.Contains(chunks[0], firstWord) {
		t.Errorf("chunk 1 starts at %q which chunk 0 does not contain", firstWord)
	}
}

func TestSplitFixed_Deterministic(t *testing.T) {
	text := longText(500)
	first, err := splitFixed(text)
	if err != nil {
		t.Fatalf("splitFixed failed: %v", err)
	}
	second, err := splitFixed(text)
	if err != nil {
		t.Fatalf("splitFixed failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitSemantic_StructuralBoundaryWinsOverSize(t *testing.T) {
	// Well under the size target, but the paragraph break still splits it.
	chunks, err := splitSemantic("fo\n\nbar bar")
	if err != nil {
		t.Fatalf("splitSemantic failed: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "fo" || chunks[1] != "bar bar" {
		t.Errorf("chunks = %v", chunks)
	}
}

func TestSplitSemantic_MarkerPriority(t *testing.T) {
	// No paragraph break, so the next marker in priority order applies.
	chunks, err := splitSemantic("intro Section one Section two")
	if err != nil {
		t.Fatalf("splitSemantic failed: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
}

func TestSplitSemantic_NoMarkerFallsBackToFixed(t *testing.T) {
	chunks, err := splitSemantic("just plain words with no structure at all")
	if err != nil {
		t.Fatalf("splitSemantic failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(chunks), chunks)
	}
}

func TestSplitSemantic_DropsEmptySegments(t *testing.T) {
	chunks, err := splitSemantic("\n\nfo\n\n\n\nbar\n\n")
	if err != nil {
		t.Fatalf("splitSemantic failed: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
}
