package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pkg/errors"

	"github.com/studymate/studymate/plugin/ai"
	"github.com/studymate/studymate/store"
)

const (
	// embedConcurrency bounds parallel embedding calls per file.
	embedConcurrency = 3
	// DefaultRetrieveLimit is how many chunks feed the chat prompt.
	DefaultRetrieveLimit = 3
)

// Indexer chunks uploaded files, embeds the chunks and persists them for
// retrieval during chat.
type Indexer struct {
	llm     ai.LLMService
	store   *store.Store
	chunker *Chunker
}

// NewIndexer creates an indexer backed by the given model and store.
func NewIndexer(llm ai.LLMService, store *store.Store) *Indexer {
	return &Indexer{
		llm:     llm,
		store:   store,
		chunker: NewChunker(),
	}
}

// IndexFile chunks and embeds content for file, replacing any previous
// chunks. The file status moves to READY on success and FAILED otherwise.
func (i *Indexer) IndexFile(ctx context.Context, file *store.UserFile, content string) error {
	if file == nil {
		return errors.New("file is nil")
	}

	if err := i.indexContent(ctx, file, content); err != nil {
		i.setStatus(ctx, file.ID, store.FileStatusFailed)
		return err
	}
	i.setStatus(ctx, file.ID, store.FileStatusReady)
	return nil
}

func (i *Indexer) indexContent(ctx context.Context, file *store.UserFile, content string) error {
	if isMarkdown(file) {
		content = FlattenMarkdown(content)
	}

	chunks := i.chunker.Chunk(content)
	if len(chunks) == 0 {
		return errors.Errorf("file %s has no extractable text", file.Filename)
	}

	embeddings := make([][]float32, len(chunks))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(embedConcurrency)
	for idx, chunk := range chunks {
		eg.Go(func() error {
			embedding, err := i.llm.Embedding(egCtx, chunk)
			if err != nil {
				return errors.Wrapf(err, "failed to embed chunk %d", idx)
			}
			embeddings[idx] = embedding
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if err := i.store.DeleteFileChunks(ctx, file.ID); err != nil {
		return errors.Wrap(err, "failed to clear previous chunks")
	}

	now := time.Now().Unix()
	for idx, chunk := range chunks {
		if _, err := i.store.CreateFileChunk(ctx, &store.FileChunk{
			FileID:    file.ID,
			Position:  int32(idx),
			Content:   chunk,
			Embedding: embeddings[idx],
			CreatedTs: now,
		}); err != nil {
			return errors.Wrapf(err, "failed to store chunk %d", idx)
		}
	}

	slog.Debug("file indexed",
		"file_id", file.ID,
		"filename", file.Filename,
		"chunks", len(chunks))
	return nil
}

func (i *Indexer) setStatus(ctx context.Context, fileID int32, status store.FileStatus) {
	now := time.Now().Unix()
	if _, err := i.store.UpdateUserFile(ctx, &store.UpdateUserFile{
		ID:        fileID,
		Status:    &status,
		UpdatedTs: &now,
	}); err != nil {
		slog.Warn("failed to update file status", "file_id", fileID, "status", status, "error", err)
	}
}

// Retrieve embeds the question and returns the closest chunks. When fileID
// is nil the search covers all of the user's ready files.
func (i *Indexer) Retrieve(ctx context.Context, creatorID int32, fileID *int32, question string, limit int) ([]*store.FileChunkMatch, error) {
	if limit <= 0 {
		limit = DefaultRetrieveLimit
	}

	embedding, err := i.llm.Embedding(ctx, question)
	if err != nil {
		return nil, errors.Wrap(err, "failed to embed question")
	}

	search := &store.SearchFileChunks{
		Embedding: embedding,
		Limit:     limit,
	}
	if fileID != nil {
		search.FileID = fileID
	} else {
		search.CreatorID = &creatorID
	}
	return i.store.SearchFileChunks(ctx, search)
}

// PromptContext renders retrieved chunks as model context.
func PromptContext(matches []*store.FileChunkMatch) string {
	if len(matches) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Nội dung trích từ tài liệu của sinh viên:\n\n")
	for idx, match := range matches {
		fmt.Fprintf(&b, "[%d] %s\n\n", idx+1, match.Chunk.Content)
	}
	return b.String()
}

func isMarkdown(file *store.UserFile) bool {
	if strings.Contains(file.ContentType, "markdown") {
		return true
	}
	name := strings.ToLower(file.Filename)
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}
