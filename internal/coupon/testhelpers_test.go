package coupon

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"storefront-cart/internal/model"

	"github.com/stretchr/testify/require"
)

// gzipLines compresses lines joined by newlines.
func gzipLines(t *testing.T, lines []string) []byte {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	_, err := gzipWriter.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())
	return buf.Bytes()
}

// createTestCouponFile creates a gzipped JSON-lines coupon file.
func createTestCouponFile(t *testing.T, dir, filename string, lines []string) string {
	filePath := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(filePath, gzipLines(t, lines), 0o600))
	return filePath
}

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, filePath string) (Set, error)
}

func (m *mockLoader) Load(ctx context.Context, filePath string) (Set, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, filePath)
	}
	return nil, errors.New("not implemented")
}

// memoryStore records upserted coupons.
type memoryStore struct {
	mu      sync.Mutex
	calls   int
	coupons []model.Coupon
	err     error
}

func (s *memoryStore) Upsert(ctx context.Context, coupons []model.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.coupons = append(s.coupons, coupons...)
	return nil
}

func setOf(codes ...string) *MapSet {
	set := NewMapSet(len(codes))
	for _, code := range codes {
		set.Add(model.Coupon{Code: code, AmountType: model.AmountTypeFixed})
	}
	return set
}
