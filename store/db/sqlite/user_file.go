package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

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
	embedding, err := json.Marshal(create.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding: %w", err)
	}

	fields := []string{"file_id", "position", "content", "embedding", "created_ts"}
	args := []any{create.FileID, create.Position, create.Content, string(embedding), create.CreatedTs}

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
		chunk, err := scanFileChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
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

// SearchFileChunks scans candidate chunks and ranks them by cosine
// similarity in Go. SQLite has no vector index; this is fine for the chunk
// counts a single user's uploads produce.
func (d *DB) SearchFileChunks(ctx context.Context, search *store.SearchFileChunks) ([]*store.FileChunkMatch, error) {
	where, args := []string{"file_chunk.embedding != ''"}, []any{}

	if search.FileID != nil {
		where, args = append(where, "file_chunk.file_id = "+placeholder(len(args)+1)), append(args, *search.FileID)
	}
	if search.CreatorID != nil {
		where, args = append(where, "user_file.creator_id = "+placeholder(len(args)+1)), append(args, *search.CreatorID)
	}

	query := `SELECT file_chunk.id, file_chunk.file_id, file_chunk.position, file_chunk.content, file_chunk.embedding, file_chunk.created_ts
		FROM file_chunk
		LEFT JOIN user_file ON user_file.id = file_chunk.file_id
		WHERE ` + strings.Join(where, " AND ")
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search file_chunks: %w", err)
	}
	defer rows.Close()

	matches := make([]*store.FileChunkMatch, 0)
	for rows.Next() {
		chunk, err := scanFileChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		matches = append(matches, &store.FileChunkMatch{
			Chunk: chunk,
			Score: cosineSimilarity(search.Embedding, chunk.Embedding),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate file_chunks: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if search.Limit > 0 && len(matches) > search.Limit {
		matches = matches[:search.Limit]
	}
	return matches, nil
}

func scanFileChunk(scan func(...any) error) (*store.FileChunk, error) {
	chunk := &store.FileChunk{}
	var embedding string
	if err := scan(&chunk.ID, &chunk.FileID, &chunk.Position, &chunk.Content, &embedding, &chunk.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to scan file_chunk: %w", err)
	}
	if embedding != "" {
		if err := json.Unmarshal([]byte(embedding), &chunk.Embedding); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding: %w", err)
		}
	}
	return chunk, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
