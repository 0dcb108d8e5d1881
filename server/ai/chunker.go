package ai

import (
	"strings"
	"unicode"
)

const (
	// DefaultChunkSize is the maximum character count per chunk.
	DefaultChunkSize = 500
	// DefaultChunkOverlap is the character count carried over between
	// consecutive chunks so retrieval does not lose context at boundaries.
	DefaultChunkOverlap = 50
)

// Chunker splits uploaded documents into overlapping pieces sized for
// embedding.
type Chunker struct {
	Size    int
	Overlap int
}

// NewChunker returns a chunker with the default size and overlap.
func NewChunker() *Chunker {
	return &Chunker{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap}
}

// Chunk splits content into chunks, preserving paragraph boundaries when
// possible.
func (c *Chunker) Chunk(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= c.Size {
		return []string{content}
	}

	paragraphs := splitParagraphs(content)

	var chunks []string
	var current strings.Builder

	for _, para := range paragraphs {
		if current.Len()+len(para) > c.Size && current.Len() > 0 {
			chunks = append(chunks, current.String())

			current.Reset()
			if overlap := overlapText(chunks, c.Overlap); overlap != "" {
				current.WriteString(overlap)
				current.WriteString("\n\n")
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)

		// Paragraphs longer than a whole chunk are force-split at
		// sentence or word boundaries.
		for current.Len() > c.Size {
			text := current.String()
			breakPoint := findBreakPoint(text[:c.Size])
			chunks = append(chunks, text[:breakPoint])

			remaining := strings.TrimLeft(text[breakPoint:], " ")
			current.Reset()
			current.WriteString(remaining)
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitParagraphs splits content into non-empty paragraphs. Single line
// breaks inside a paragraph are joined with spaces; blank lines separate
// paragraphs.
func splitParagraphs(content string) []string {
	var result []string
	var current strings.Builder

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" {
			if current.Len() > 0 {
				result = append(result, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}

// overlapText returns the tail of the previous chunk, trimmed to a word
// boundary.
func overlapText(chunks []string, overlapSize int) string {
	if len(chunks) == 0 {
		return ""
	}

	lastChunk := chunks[len(chunks)-1]
	if len(lastChunk) <= overlapSize {
		return lastChunk
	}

	overlap := lastChunk[len(lastChunk)-overlapSize:]
	if idx := strings.IndexAny(overlap, " \t"); idx > 0 {
		return overlap[idx+1:]
	}

	return overlap
}

// findBreakPoint finds a position to split text, preferring sentence ends,
// then word boundaries in the second half.
func findBreakPoint(text string) int {
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == '.' || text[i] == '!' || text[i] == '?' {
			if i == len(text)-1 || unicode.IsSpace(rune(text[i+1])) {
				return i + 1
			}
		}
	}

	for i := len(text) - 1; i >= len(text)/2; i-- {
		if unicode.IsSpace(rune(text[i])) {
			return i
		}
	}

	return len(text)
}
