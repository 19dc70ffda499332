package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("upload URL reserves the key", func(t *testing.T) {
		s := NewMemoryObjectStorage()

		url, expiresAt, err := s.GenerateUploadURL(ctx, "clearances/abc/doc.pdf", "application/pdf", 10*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "clearances/abc/doc.pdf")
		assert.True(t, expiresAt.After(time.Now()))

		exists, err := s.ObjectExists(ctx, "clearances/abc/doc.pdf")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("unknown key does not exist", func(t *testing.T) {
		s := NewMemoryObjectStorage()

		exists, err := s.ObjectExists(ctx, "clearances/missing/doc.pdf")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		s := NewMemoryObjectStorage()
		s.Put("clearances/abc/receipt.png", []byte{1, 2, 3})

		require.NoError(t, s.DeleteObject(ctx, "clearances/abc/receipt.png"))

		exists, err := s.ObjectExists(ctx, "clearances/abc/receipt.png")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		s := NewMemoryObjectStorage()

		_, _, err := s.GenerateUploadURL(ctx, "", "application/pdf", time.Minute)
		assert.Error(t, err)

		_, err = s.ObjectExists(ctx, "")
		assert.Error(t, err)
	})
}
