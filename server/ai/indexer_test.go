package ai

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate/studymate/internal/profile"
	pluginai "github.com/studymate/studymate/plugin/ai"
	"github.com/studymate/studymate/store"
	"github.com/studymate/studymate/store/db/sqlite"
)

func newIndexerTestStore(t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:   "prod",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "indexer_test.db"),
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)

	s := store.New(driver, p)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func createIndexerTestFile(t *testing.T, s *store.Store, filename string) *store.UserFile {
	t.Helper()

	now := time.Now().Unix()
	user, err := s.CreateUser(context.Background(), &store.User{
		UID:          shortuuid.New(),
		Username:     "sv.b21dccn001",
		PasswordHash: "hash",
		RowStatus:    store.Normal,
		CreatedTs:    now,
		UpdatedTs:    now,
	})
	require.NoError(t, err)

	file, err := s.CreateUserFile(context.Background(), &store.UserFile{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		Filename:  filename,
		Status:    store.FileStatusProcessing,
		CreatedTs: now,
		UpdatedTs: now,
	})
	require.NoError(t, err)
	return file
}

// keywordEmbedder maps a few keywords onto orthogonal axes so similarity is
// deterministic in tests.
func keywordEmbedder(text string) []float32 {
	embedding := make([]float32, 3)
	for axis, keyword := range []string{"giới hạn", "đạo hàm", "tích phân"} {
		if strings.Contains(text, keyword) {
			embedding[axis] = 1
		}
	}
	return embedding
}

func TestIndexFileAndRetrieve(t *testing.T) {
	ctx := context.Background()
	s := newIndexerTestStore(t)
	file := createIndexerTestFile(t, s, "giai-tich.md")

	llm := pluginai.NewMockLLMService()
	llm.EmbeddingFunc = func(ctx context.Context, text string) ([]float32, error) {
		return keywordEmbedder(text), nil
	}
	indexer := NewIndexer(llm, s)

	content := `# Giải tích 1

Chương về giới hạn của hàm số.

Chương về đạo hàm và ứng dụng.`
	require.NoError(t, indexer.IndexFile(ctx, file, content))

	stored, err := s.GetUserFile(ctx, &store.FindUserFile{ID: &file.ID})
	require.NoError(t, err)
	assert.Equal(t, store.FileStatusReady, stored.Status)

	chunks, err := s.ListFileChunks(ctx, &store.FindFileChunk{FileID: &file.ID})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	matches, err := indexer.Retrieve(ctx, file.CreatorID, &file.ID, "giới hạn là gì", 2)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Contains(t, matches[0].Chunk.Content, "giới hạn")
}

func TestIndexFileReplacesOldChunks(t *testing.T) {
	ctx := context.Background()
	s := newIndexerTestStore(t)
	file := createIndexerTestFile(t, s, "notes.md")

	llm := pluginai.NewMockLLMService()
	llm.EmbeddingFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	indexer := NewIndexer(llm, s)

	require.NoError(t, indexer.IndexFile(ctx, file, "Phiên bản đầu tiên của tài liệu."))
	require.NoError(t, indexer.IndexFile(ctx, file, "Phiên bản thứ hai của tài liệu."))

	chunks, err := s.ListFileChunks(ctx, &store.FindFileChunk{FileID: &file.ID})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "thứ hai")
}

func TestIndexFileEmptyContentFails(t *testing.T) {
	ctx := context.Background()
	s := newIndexerTestStore(t)
	file := createIndexerTestFile(t, s, "empty.txt")

	indexer := NewIndexer(pluginai.NewMockLLMService(), s)
	require.Error(t, indexer.IndexFile(ctx, file, "   "))

	stored, err := s.GetUserFile(ctx, &store.FindUserFile{ID: &file.ID})
	require.NoError(t, err)
	assert.Equal(t, store.FileStatusFailed, stored.Status)
}

func TestPromptContext(t *testing.T) {
	assert.Empty(t, PromptContext(nil))

	text := PromptContext([]*store.FileChunkMatch{
		{Chunk: &store.FileChunk{Content: "Nội dung chương một"}, Score: 0.9},
	})
	assert.Contains(t, text, "tài liệu của sinh viên")
	assert.Contains(t, text, "[1] Nội dung chương một")
}
