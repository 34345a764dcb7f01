package database

import (
	"path/filepath"
	"testing"

	"shorturl-analytics/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{"mysql", "mysql"},
		{"", "mysql"},
		{"postgres", "postgres"},
		{"sqlite", "sqlite"},
	}
	for _, tt := range tests {
		d, err := Dialector(Options{Driver: tt.driver, Host: "localhost", Port: 1, Name: "x", Path: "x.db"})
		require.NoError(t, err)
		assert.Equal(t, tt.name, d.Name())
	}

	_, err := Dialector(Options{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpen_SQLiteMigratesAllTables(t *testing.T) {
	db, err := Open(Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	for _, m := range model.AllModels() {
		assert.True(t, db.Migrator().HasTable(m), "缺少表 %T", m)
	}
}
