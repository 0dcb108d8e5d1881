package store

import (
	"context"
)

type FileStatus string

const (
	// FileStatusProcessing means chunks and embeddings are still being built.
	FileStatusProcessing FileStatus = "PROCESSING"
	// FileStatusReady means the file can be used as chat context.
	FileStatusReady FileStatus = "READY"
	// FileStatusFailed means chunking or embedding failed.
	FileStatusFailed FileStatus = "FAILED"
)

// UserFile is a document a student uploaded to ask questions about.
type UserFile struct {
	ID        int32
	UID       string
	CreatorID int32

	Filename    string
	ContentType string
	Size        int64
	Status      FileStatus

	CreatedTs int64
	UpdatedTs int64
}

type FindUserFile struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Status    *FileStatus
}

type UpdateUserFile struct {
	ID        int32
	Status    *FileStatus
	UpdatedTs *int64
}

type DeleteUserFile struct {
	ID int32
}

// FileChunk is one embedded slice of an uploaded file.
type FileChunk struct {
	ID        int32
	FileID    int32
	Position  int32
	Content   string
	Embedding []float32
	CreatedTs int64
}

type FindFileChunk struct {
	ID     *int32
	FileID *int32
}

// SearchFileChunks looks up the chunks closest to Embedding, scoped to one
// file or to all of a user's files.
type SearchFileChunks struct {
	FileID    *int32
	CreatorID *int32
	Embedding []float32
	Limit     int
}

// FileChunkMatch pairs a chunk with its cosine similarity to the query.
type FileChunkMatch struct {
	Chunk *FileChunk
	Score float32
}

func (s *Store) CreateUserFile(ctx context.Context, create *UserFile) (*UserFile, error) {
	return s.driver.CreateUserFile(ctx, create)
}

func (s *Store) ListUserFiles(ctx context.Context, find *FindUserFile) ([]*UserFile, error) {
	return s.driver.ListUserFiles(ctx, find)
}

// GetUserFile returns one file matching find, or nil when none does.
func (s *Store) GetUserFile(ctx context.Context, find *FindUserFile) (*UserFile, error) {
	list, err := s.driver.ListUserFiles(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateUserFile(ctx context.Context, update *UpdateUserFile) (*UserFile, error) {
	return s.driver.UpdateUserFile(ctx, update)
}

func (s *Store) DeleteUserFile(ctx context.Context, delete *DeleteUserFile) error {
	return s.driver.DeleteUserFile(ctx, delete)
}

func (s *Store) CreateFileChunk(ctx context.Context, create *FileChunk) (*FileChunk, error) {
	return s.driver.CreateFileChunk(ctx, create)
}

func (s *Store) ListFileChunks(ctx context.Context, find *FindFileChunk) ([]*FileChunk, error) {
	return s.driver.ListFileChunks(ctx, find)
}

func (s *Store) DeleteFileChunks(ctx context.Context, fileID int32) error {
	return s.driver.DeleteFileChunks(ctx, fileID)
}

func (s *Store) SearchFileChunks(ctx context.Context, search *SearchFileChunks) ([]*FileChunkMatch, error) {
	return s.driver.SearchFileChunks(ctx, search)
}
