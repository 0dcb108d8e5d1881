package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate/studymate/internal/profile"
)

func TestShouldApplyMigration(t *testing.T) {
	tests := []struct {
		fileVersion    string
		currentVersion string
		targetVersion  string
		want           bool
	}{
		{"0.2.1", "0.2.0", "0.2.2", true},
		{"0.2.2", "0.2.0", "0.2.2", true},
		{"0.2.0", "0.2.0", "0.2.2", false},
		{"0.3.0", "0.2.0", "0.2.2", false},
		// Empty current version is treated as a fresh database.
		{"0.2.1", "", "0.2.2", true},
	}

	for _, tt := range tests {
		got := shouldApplyMigration(tt.fileVersion, tt.currentVersion, tt.targetVersion)
		assert.Equal(t, tt.want, got, "file=%s current=%s target=%s", tt.fileVersion, tt.currentVersion, tt.targetVersion)
	}
}

func TestValidateMigrationFileName(t *testing.T) {
	assert.NoError(t, validateMigrationFileName("01__add_message_category.sql"))
	assert.NoError(t, validateMigrationFileName("12__another_change.sql"))
	assert.Error(t, validateMigrationFileName("add_message_category.sql"))
	assert.Error(t, validateMigrationFileName("xx__add_message_category.sql"))
}

func TestGetSchemaVersionOfMigrateScript(t *testing.T) {
	s := &Store{profile: &profile.Profile{Mode: "prod", Driver: "sqlite"}}

	version, err := s.getSchemaVersionOfMigrateScript("migration/sqlite/0.2/01__add_message_category.sql")
	require.NoError(t, err)
	assert.Equal(t, "0.2.2", version)

	_, err = s.getSchemaVersionOfMigrateScript("migration/sqlite/0.2/bad__file.sql")
	assert.Error(t, err)
}

func TestGetCurrentSchemaVersion(t *testing.T) {
	s := &Store{profile: &profile.Profile{Mode: "prod", Driver: "sqlite"}}

	version, err := s.GetCurrentSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, "0.2.2", version)
}

func TestSplitSQL(t *testing.T) {
	script := `-- comment line
CREATE TABLE a (
  id SERIAL PRIMARY KEY
);

CREATE INDEX idx_a ON a (id);
`
	statements := splitSQL(script)
	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "CREATE TABLE a")
	assert.Contains(t, statements[1], "CREATE INDEX idx_a")
}
