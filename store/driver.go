package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// Chat model related methods.
	CreateChat(ctx context.Context, create *Chat) (*Chat, error)
	ListChats(ctx context.Context, find *FindChat) ([]*Chat, error)
	UpdateChat(ctx context.Context, update *UpdateChat) (*Chat, error)
	DeleteChat(ctx context.Context, delete *DeleteChat) error

	// ChatMessage model related methods.
	CreateChatMessage(ctx context.Context, create *ChatMessage) (*ChatMessage, error)
	ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error)
	DeleteChatMessage(ctx context.Context, delete *DeleteChatMessage) error

	// UserFile model related methods.
	CreateUserFile(ctx context.Context, create *UserFile) (*UserFile, error)
	ListUserFiles(ctx context.Context, find *FindUserFile) ([]*UserFile, error)
	UpdateUserFile(ctx context.Context, update *UpdateUserFile) (*UserFile, error)
	DeleteUserFile(ctx context.Context, delete *DeleteUserFile) error

	// FileChunk model related methods.
	CreateFileChunk(ctx context.Context, create *FileChunk) (*FileChunk, error)
	ListFileChunks(ctx context.Context, find *FindFileChunk) ([]*FileChunk, error)
	DeleteFileChunks(ctx context.Context, fileID int32) error

	// SearchFileChunks performs semantic search over file chunks using
	// vector similarity.
	SearchFileChunks(ctx context.Context, search *SearchFileChunks) ([]*FileChunkMatch, error)

	// SystemSetting model related methods.
	UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error)
	ListSystemSettings(ctx context.Context, find *FindSystemSetting) ([]*SystemSetting, error)
}
