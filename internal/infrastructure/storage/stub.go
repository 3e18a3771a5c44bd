package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	prescriptionapp "github.com/asspharma/backend/internal/application/prescription"
	"go.uber.org/zap"
)

var _ prescriptionapp.ScanStore = (*StubScanStore)(nil)

// StubScanStore keeps scans in memory and hands out fake URLs. It is
// used in development and tests when no S3-compatible backend is
// configured, so the prescription flow stays exercisable end to end.
type StubScanStore struct {
	mu      sync.RWMutex
	objects map[string]stubObject
	baseURL string
	logger  *zap.Logger
}

type stubObject struct {
	contentType string
	data        []byte
}

// NewStubScanStore creates an in-memory scan store
func NewStubScanStore(logger *zap.Logger) *StubScanStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubScanStore{
		objects: make(map[string]stubObject),
		baseURL: "https://scans.local",
		logger:  logger,
	}
}

// Put stores a scan in memory
func (s *StubScanStore) Put(_ context.Context, key, contentType string, data []byte) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = stubObject{contentType: contentType, data: stored}

	s.logger.Debug("Scan stored in stub store",
		zap.String("key", key),
		zap.Int("size", len(data)),
	)
	return nil
}

// PresignGet returns a fake URL carrying the key and expiry
func (s *StubScanStore) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("scan not found: %s", key)
	}

	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return fmt.Sprintf("%s/%s?expires=%d", s.baseURL, key, int64(expiry.Seconds())), nil
}

// Get returns a stored scan, for tests
func (s *StubScanStore) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, "", false
	}
	return obj.data, obj.contentType, true
}
