package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/studymate/studymate/store"
)

func (d *DB) CreateUserFile(ctx context.Context, create *store.UserFile) (*store.UserFile, error) {
	fields := []string{"uid", "creator_id", "filename", "content_type", "size", "status", "created_ts", "updated_ts"}
	args := []any{create.UID, create.CreatorID, create.Filename, create.ContentType, create.Size, string(create.Status), create.CreatedTs, create.UpdatedTs}

	stmt := `INSERT INTO user_file (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create user_file: %w", err)
	}

	return create, nil
}

func (d *DB) ListUserFiles(ctx context.Context, find *store.FindUserFile) ([]*store.UserFile, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *find.CreatorID)
	}
	if find.Status != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, string(*find.Status))
	}

	query := `SELECT id, uid, creator_id, filename, content_type, size, status, created_ts, updated_ts
		FROM user_file WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list user_files: %w", err)
	}
	defer rows.Close()

	list := make([]*store.UserFile, 0)
	for rows.Next() {
		file := &store.UserFile{}
		var status string
		if err := rows.Scan(&file.ID, &file.UID, &file.CreatorID, &file.Filename, &file.ContentType, &file.Size, &status, &file.CreatedTs, &file.UpdatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan user_file: %w", err)
		}
		file.Status = store.FileStatus(status)
		list = append(list, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user_files: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateUserFile(ctx context.Context, update *store.UpdateUserFile) (*store.UserFile, error) {
	set, args := []string{}, []any{}

	if update.Status != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, string(*update.Status))
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *update.UpdatedTs)
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE user_file SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, uid, creator_id, filename, content_type, size, status, created_ts, updated_ts`
	file := &store.UserFile{}
	var status string
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&file.ID, &file.UID, &file.CreatorID, &file.Filename, &file.ContentType, &file.Size, &status, &file.CreatedTs, &file.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to update user_file: %w", err)
	}
	file.Status = store.FileStatus(status)

	return file, nil
}

func (d *DB) DeleteUserFile(ctx context.Context, delete *store.DeleteUserFile) error {
	if err := d.DeleteFileChunks(ctx, delete.ID); err != nil {
		return err
	}

	result, err := d.db.ExecContext(ctx, `DELETE FROM user_file WHERE id = `+placeholder(1), delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user_file: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user_file not found")
	}

	return nil
}

func (d *DB) CreateFileChunk(ctx context.Context, create *store.FileChunk) (*store.FileChunk, error) {
	fields := []string{"file_id", "position", "content", "embedding", "created_ts"}
	args := []any{create.FileID, create.Position, create.Content, pgvector.NewVector(create.Embedding), create.CreatedTs}

	stmt := `INSERT INTO file_chunk (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create file_chunk: %w", err)
	}

	return create, nil
}

func (d *DB) ListFileChunks(ctx context.Context, find *store.FindFileChunk) ([]*store.FileChunk, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.FileID != nil {
		where, args = append(where, "file_id = "+placeholder(len(args)+1)), append(args, *find.FileID)
	}

	query := `SELECT id, file_id, position, content, embedding, created_ts
		FROM file_chunk WHERE ` + strings.Join(where, " AND ") + ` ORDER BY file_id ASC, position ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list file_chunks: %w", err)
	}
	defer rows.Close()

	list := make([]*store.FileChunk, 0)
	for rows.Next() {
		chunk := &store.FileChunk{}
		var embedding pgvector.Vector
		if err := rows.Scan(&chunk.ID, &chunk.FileID, &chunk.Position, &chunk.Content, &embedding, &chunk.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan file_chunk: %w", err)
		}
		chunk.Embedding = embedding.Slice()
		list = append(list, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate file_chunks: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteFileChunks(ctx context.Context, fileID int32) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM file_chunk WHERE file_id = `+placeholder(1), fileID); err != nil {
		return fmt.Errorf("failed to delete file_chunks: %w", err)
	}
	return nil
}

// SearchFileChunks ranks chunks with pgvector's cosine distance operator.
// The returned score is 1 - distance, so higher is more similar.
func (d *DB) SearchFileChunks(ctx context.Context, search *store.SearchFileChunks) ([]*store.FileChunkMatch, error) {
	where := []string{"file_chunk.embedding IS NOT NULL"}
	args := []any{pgvector.NewVector(search.Embedding)}

	if search.FileID != nil {
		where, args = append(where, "file_chunk.file_id = "+placeholder(len(args)+1)), append(args, *search.FileID)
	}
	if search.CreatorID != nil {
		where, args = append(where, "user_file.creator_id = "+placeholder(len(args)+1)), append(args, *search.CreatorID)
	}

	limit := search.Limit
	if limit <= 0 {
		limit = 5
	}
	args = append(args, limit)

	query := `SELECT file_chunk.id, file_chunk.file_id, file_chunk.position, file_chunk.content, file_chunk.embedding, file_chunk.created_ts,
			1 - (file_chunk.embedding <=> $1) AS score
		FROM file_chunk
		LEFT JOIN user_file ON user_file.id = file_chunk.file_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY file_chunk.embedding <=> $1
		LIMIT ` + placeholder(len(args))
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search file_chunks: %w", err)
	}
	defer rows.Close()

	matches := make([]*store.FileChunkMatch, 0)
	for rows.Next() {
		chunk := &store.FileChunk{}
		var embedding pgvector.Vector
		var score float32
		if err := rows.Scan(&chunk.ID, &chunk.FileID, &chunk.Position, &chunk.Content, &embedding, &chunk.CreatedTs, &score); err != nil {
			return nil, fmt.Errorf("failed to scan file_chunk: %w", err)
		}
		chunk.Embedding = embedding.Slice()
		matches = append(matches, &store.FileChunkMatch{Chunk: chunk, Score: score})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate file_chunks: %w", err)
	}

	return matches, nil
}
