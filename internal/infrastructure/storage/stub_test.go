package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubScanStore(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and retrieves a scan", func(t *testing.T) {
		store := NewStubScanStore(nil)

		err := store.Put(ctx, "ordonnances/2026/01/scan-001.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
		require.NoError(t, err)

		data, contentType, ok := store.Get("ordonnances/2026/01/scan-001.jpg")
		require.True(t, ok)
		assert.Equal(t, "image/jpeg", contentType)
		assert.Equal(t, []byte("fake-jpeg-bytes"), data)
	})

	t.Run("put copies the payload", func(t *testing.T) {
		store := NewStubScanStore(nil)

		payload := []byte("original")
		require.NoError(t, store.Put(ctx, "scan.pdf", "application/pdf", payload))
		payload[0] = 'X'

		data, _, ok := store.Get("scan.pdf")
		require.True(t, ok)
		assert.Equal(t, []byte("original"), data)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		store := NewStubScanStore(nil)

		err := store.Put(ctx, "", "image/jpeg", []byte("data"))
		assert.Error(t, err)

		_, err = store.PresignGet(ctx, "", time.Minute)
		assert.Error(t, err)
	})

	t.Run("presigns stored scans only", func(t *testing.T) {
		store := NewStubScanStore(nil)
		require.NoError(t, store.Put(ctx, "scan-002.jpg", "image/jpeg", []byte("bytes")))

		url, err := store.PresignGet(ctx, "scan-002.jpg", 10*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "https://scans.local/scan-002.jpg?expires=600", url)

		_, err = store.PresignGet(ctx, "missing.jpg", 10*time.Minute)
		assert.Error(t, err)
	})

	t.Run("defaults expiry when non-positive", func(t *testing.T) {
		store := NewStubScanStore(nil)
		require.NoError(t, store.Put(ctx, "scan-003.jpg", "image/jpeg", []byte("bytes")))

		url, err := store.PresignGet(ctx, "scan-003.jpg", 0)
		require.NoError(t, err)
		assert.Contains(t, url, "expires=900")
	})
}
