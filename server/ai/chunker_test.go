package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkShortContent(t *testing.T) {
	c := NewChunker()

	chunks := c.Chunk("Ngắn gọn.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Ngắn gọn.", chunks[0])

	assert.Nil(t, c.Chunk("   "))
}

func TestChunkPreservesParagraphs(t *testing.T) {
	c := &Chunker{Size: 120, Overlap: 20}

	paraA := strings.Repeat("aaaa ", 20)
	paraB := strings.Repeat("bbbb ", 20)
	chunks := c.Chunk(strings.TrimSpace(paraA) + "\n\n" + strings.TrimSpace(paraB))

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Contains(t, chunks[0], "aaaa")
	assert.Contains(t, chunks[len(chunks)-1], "bbbb")
}

func TestChunkForceSplitsLongParagraph(t *testing.T) {
	c := &Chunker{Size: 100, Overlap: 10}

	long := strings.Repeat("word ", 100)
	chunks := c.Chunk(strings.TrimSpace(long))
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), c.Size)
	}
}

func TestChunkOverlapCarriesContext(t *testing.T) {
	c := &Chunker{Size: 60, Overlap: 15}

	content := "The first sentence ends here. The second sentence continues the thought afterwards."
	chunks := c.Chunk(content)
	require.Greater(t, len(chunks), 1)

	// Joined chunks still contain the full text.
	joined := strings.Join(chunks, " ")
	assert.Contains(t, joined, "first sentence")
	assert.Contains(t, joined, "continues the thought")
}

func TestFindBreakPoint(t *testing.T) {
	assert.Equal(t, 15, findBreakPoint("A sentence end. And more text"))

	// No sentence end falls back to the last word boundary.
	text := "word word word word"
	point := findBreakPoint(text)
	assert.Equal(t, byte(' '), text[point])

	// Unbreakable text splits at the limit.
	assert.Equal(t, 10, findBreakPoint("aaaaaaaaaa"))
}

func TestSplitParagraphs(t *testing.T) {
	paragraphs := splitParagraphs("line one\nline two\n\nsecond para\r\n\r\nthird")
	require.Len(t, paragraphs, 3)
	assert.Equal(t, "line one line two", paragraphs[0])
	assert.Equal(t, "second para", paragraphs[1])
	assert.Equal(t, "third", paragraphs[2])
}
