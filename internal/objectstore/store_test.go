package objectstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu            sync.Mutex
	bucketExists  bool
	objects       map[string][]byte
	contentTypes  map[string]string
	createdBucket bool
}

func newFakeS3(bucketExists bool) *fakeS3 {
	return &fakeS3{
		bucketExists: bucketExists,
		objects:      map[string][]byte{},
		contentTypes: map[string]string{},
	}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(p, "/")
	if bucket != "user-content" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case key == "" && r.Method == http.MethodHead:
		if !f.bucketExists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodPut:
		f.bucketExists = true
		f.createdBucket = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		f.contentTypes[key] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T, fake *fakeS3) *Store {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:      "us-east-1",
		Credentials: aws.AnonymousCredentials{},
	}, func(o *s3.Options) {
		Configure(o, srv.URL)
	})
	return NewWithClient(client, "user-content", "https://cdn.example/storage/v1/object/public/")
}

func TestStore_PutAndDelete(t *testing.T) {
	fake := newFakeS3(true)
	store := newTestStore(t, fake)
	ctx := context.Background()

	payload := []byte("fake png bytes")
	require.NoError(t, store.Put(ctx, "u1/image/a.png", "image/png", bytes.NewReader(payload), int64(len(payload))))

	fake.mu.Lock()
	assert.Contains(t, string(fake.objects["u1/image/a.png"]), "fake png bytes")
	assert.Equal(t, "image/png", fake.contentTypes["u1/image/a.png"])
	fake.mu.Unlock()

	require.NoError(t, store.Delete(ctx, "u1/image/a.png"))
	fake.mu.Lock()
	_, ok := fake.objects["u1/image/a.png"]
	fake.mu.Unlock()
	assert.False(t, ok)

	assert.NoError(t, store.Delete(ctx, ""))
}

func TestStore_BucketLifecycle(t *testing.T) {
	fake := newFakeS3(false)
	store := newTestStore(t, fake)
	ctx := context.Background()

	exists, err := store.BucketExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	created, err := store.EnsureBucket(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, fake.createdBucket)

	created, err = store.EnsureBucket(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestStore_PublicURL(t *testing.T) {
	store := NewWithClient(nil, "user-content", "https://cdn.example/storage/v1/object/public/")
	assert.Equal(t,
		"https://cdn.example/storage/v1/object/public/user-content/u1/image/my%20file.png",
		store.PublicURL("u1/image/my file.png"))
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("u1", "video", "Holiday.MP4")
	parts := strings.Split(key, "/")
	require.Len(t, parts, 3)
	assert.Equal(t, "u1", parts[0])
	assert.Equal(t, "video", parts[1])
	assert.True(t, strings.HasSuffix(parts[2], ".mp4"))

	assert.True(t, strings.HasSuffix(ObjectKey("u1", "image", "noext"), ".bin"))
}
