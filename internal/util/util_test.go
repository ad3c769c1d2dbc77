// internal/util/util_test.go
package util

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	assert.True(t, IsError(ErrSelfTransfer, ErrInvalidInput))
	assert.True(t, IsError(ErrTransferNotFound, ErrNotFound))
	assert.True(t, IsError(ErrTransferDecided, ErrInvalidState))
	assert.True(t, IsError(ErrNotTransferDecider, ErrForbidden))
	assert.True(t, IsError(fmt.Errorf("decide: %w", ErrInsufficientFunds), ErrInsufficientFunds))
	assert.False(t, IsError(ErrSelfMessage, ErrForbidden))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInitLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	InitLogger(LogOptions{Level: "info", File: path, MaxSizeMB: 1})
	t.Cleanup(func() { InitLogger(LogOptions{}) })

	GetLogger().Info("Transfer decided", "transfer_id", 11)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Transfer decided"`)
	assert.Contains(t, string(data), `"transfer_id":11`)
}
