package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bifrost-finance/linker/errors"
	"github.com/bifrost-finance/linker/linkertest/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves path style object requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.objects[key] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	s, err := NewS3Store(ctx, S3Options{
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "links",
		Key:       "accounts.json",
	}, 6)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	assert.IsErr(t, errors.ErrNotFound, err)

	require.NoError(t, s.Save(ctx, testLinks))
	require.Contains(t, fake.objects, "links/accounts.json")

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, testLinks, got)
}

func TestS3StoreRequiresLocation(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Options{Region: "us-east-1"}, 6)
	assert.IsErr(t, errors.ErrEmpty, err)
}
