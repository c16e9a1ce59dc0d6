package upload_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goroads/kerbside/core/upload"
	"github.com/goroads/kerbside/core/user"
)

type fakeBlobStore struct {
	mu sync.Mutex

	putCalls    int
	deleteCalls int

	putKey      string
	putMetadata map[string]string
	putBytes    int64
	deletedKeys []string

	putErr    error
	urlErr    error
	deleteErr error
	metaErr   error
	meta      upload.ObjectMeta
}

func (s *fakeBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string, metadata map[string]string) error {
	s.mu.Lock()
	s.putCalls++
	s.putKey = key
	s.putMetadata = metadata
	s.mu.Unlock()

	if s.putErr != nil {
		return s.putErr
	}

	n, err := io.Copy(io.Discard, r)
	s.mu.Lock()
	s.putBytes = n
	s.mu.Unlock()
	return err
}

func (s *fakeBlobStore) URL(ctx context.Context, key string) (string, error) {
	if s.urlErr != nil {
		return "", s.urlErr
	}
	return "https://store.example.com/photos/" + key + "?X-Amz-Signature=abc", nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.deleteCalls++
	s.deletedKeys = append(s.deletedKeys, key)
	s.mu.Unlock()
	return s.deleteErr
}

func (s *fakeBlobStore) Metadata(ctx context.Context, url string) (upload.ObjectMeta, error) {
	if s.metaErr != nil {
		return upload.ObjectMeta{}, s.metaErr
	}
	return s.meta, nil
}

func (s *fakeBlobStore) calls() (puts, deletes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putCalls, s.deleteCalls
}

func fixedClock() time.Time {
	return time.UnixMilli(1700000000000)
}

func newTestPipeline(store *fakeBlobStore) *upload.Pipeline {
	return upload.NewPipeline(upload.PipelineDeps{
		Store: store,
		Users: user.NewStaticProvider("serena@corkcoco.ie", "cli"),
		Clock: fixedClock,
	})
}

func imageFile(size int) *upload.File {
	payload := bytes.Repeat([]byte("k"), size)
	return &upload.File{
		Name:        "photo.jpg",
		ContentType: "image/jpeg",
		Size:        int64(size),
		Content:     bytes.NewReader(payload),
	}
}

func TestPipelineUploadValidation(t *testing.T) {
	type testCase struct {
		Description string
		File        *upload.File
		AssetID     string
		Reason      string
	}
	var testCases = []testCase{
		{
			Description: "rejects a missing file",
			File:        nil,
			AssetID:     "G-100",
			Reason:      "no file provided for upload",
		},
		{
			Description: "rejects a missing asset id",
			File:        imageFile(128),
			AssetID:     "",
			Reason:      "no asset ID provided for upload",
		},
		{
			Description: "rejects a disallowed media type",
			File: &upload.File{
				Name:        "report.pdf",
				ContentType: "application/pdf",
				Size:        128,
				Content:     strings.NewReader("%PDF"),
			},
			AssetID: "G-100",
			Reason:  "invalid file type \"application/pdf\", only JPG, PNG, GIF and WebP images are allowed",
		},
		{
			Description: "rejects an oversized file before any transfer",
			File: &upload.File{
				Name:        "huge.png",
				ContentType: "image/png",
				Size:        11_000_000,
				Content:     strings.NewReader("stub"),
			},
			AssetID: "G-100",
			Reason:  "file too large, maximum size is 10MB",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			store := &fakeBlobStore{}
			pipeline := newTestPipeline(store)

			_, err := pipeline.Upload(context.Background(), tc.File, tc.AssetID, "")

			var classified *upload.Error
			require.ErrorAs(t, err, &classified)
			assert.Equal(t, upload.KindValidation, classified.Kind)
			assert.Equal(t, tc.Reason, classified.Message())

			puts, deletes := store.calls()
			assert.Zero(t, puts, "validation failures must not touch the store")
			assert.Zero(t, deletes)
		})
	}
}

func TestPipelineUploadSuccess(t *testing.T) {
	store := &fakeBlobStore{}
	pipeline := newTestPipeline(store)

	url, err := pipeline.Upload(context.Background(), imageFile(2_000_000), "G-100", "")
	require.NoError(t, err)
	assert.Equal(t, "https://store.example.com/photos/inspections/G-100/1700000000000_photo.jpg?X-Amz-Signature=abc", url)
	assert.Equal(t, "inspections/G-100/1700000000000_photo.jpg", store.putKey)
	assert.EqualValues(t, 2_000_000, store.putBytes)
}

func TestPipelineUploadMetadata(t *testing.T) {
	store := &fakeBlobStore{}
	pipeline := newTestPipeline(store)

	_, err := pipeline.Upload(context.Background(), imageFile(512), "G-100", "inspections")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"uploaded-by":       "serena@corkcoco.ie",
		"asset-id":          "G-100",
		"upload-timestamp":  "1700000000000",
		"original-filename": "photo.jpg",
		"file-size":         "512",
	}, store.putMetadata)
}

func TestPipelineWatchProgress(t *testing.T) {
	store := &fakeBlobStore{}
	pipeline := newTestPipeline(store)

	var pcts []int
	var terminal []upload.Event
	for event := range pipeline.Watch(context.Background(), imageFile(1_000_000), "G-100", "") {
		switch event.Kind {
		case upload.EventProgress:
			pcts = append(pcts, event.Pct)
		default:
			terminal = append(terminal, event)
		}
	}

	require.NotEmpty(t, pcts, "expected progress events")
	for i := 1; i < len(pcts); i++ {
		assert.GreaterOrEqual(t, pcts[i], pcts[i-1], "progress must be non-decreasing")
	}
	assert.Equal(t, 100, pcts[len(pcts)-1], "progress must reach 100 before the terminal event")

	require.Len(t, terminal, 1, "exactly one terminal event")
	assert.Equal(t, upload.EventSuccess, terminal[0].Kind)
	assert.NotEmpty(t, terminal[0].URL)
}

func TestPipelineWatchFailure(t *testing.T) {
	store := &fakeBlobStore{putErr: errors.New("dial tcp: connection refused")}
	pipeline := newTestPipeline(store)

	var terminal []upload.Event
	for event := range pipeline.Watch(context.Background(), imageFile(1024), "G-100", "") {
		if event.Kind != upload.EventProgress {
			terminal = append(terminal, event)
		}
	}

	require.Len(t, terminal, 1, "exactly one terminal event")
	require.Equal(t, upload.EventFailure, terminal[0].Kind)

	var classified *upload.Error
	require.ErrorAs(t, terminal[0].Err, &classified)
	assert.Equal(t, upload.KindTransport, classified.Kind)
}

func TestPipelineUploadPreClassifiedFailure(t *testing.T) {
	storeErr := &upload.Error{Kind: upload.KindAuthorization, Err: errors.New("Access Denied.")}
	store := &fakeBlobStore{putErr: storeErr}
	pipeline := newTestPipeline(store)

	_, err := pipeline.Upload(context.Background(), imageFile(1024), "G-100", "")

	var classified *upload.Error
	require.ErrorAs(t, err, &classified)
	assert.Same(t, storeErr, classified)
}

func TestPipelineUploadURLFailure(t *testing.T) {
	store := &fakeBlobStore{urlErr: errors.New("presign broke")}
	pipeline := newTestPipeline(store)

	_, err := pipeline.Upload(context.Background(), imageFile(1024), "G-100", "")

	var classified *upload.Error
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, upload.KindUnknown, classified.Kind)
}

func TestPipelineDeletePhoto(t *testing.T) {
	t.Run("derives the key from the reference URL", func(t *testing.T) {
		store := &fakeBlobStore{}
		pipeline := newTestPipeline(store)

		url := "https://store.example.com/photos/inspections/G-100/1700000000000_photo.jpg?X-Amz-Signature=abc"
		pipeline.DeletePhoto(context.Background(), url, "G-100", "inspections")

		require.Len(t, store.deletedKeys, 1)
		assert.Equal(t, "inspections/G-100/1700000000000_photo.jpg", store.deletedKeys[0])
	})

	t.Run("swallows store failures", func(t *testing.T) {
		store := &fakeBlobStore{deleteErr: errors.New("no such key")}
		pipeline := newTestPipeline(store)

		assert.NotPanics(t, func() {
			pipeline.DeletePhoto(context.Background(), "https://store.example.com/x/y/z.jpg", "G-100", "")
		})
	})

	t.Run("does nothing for an empty URL", func(t *testing.T) {
		store := &fakeBlobStore{}
		pipeline := newTestPipeline(store)

		pipeline.DeletePhoto(context.Background(), "", "G-100", "")
		_, deletes := store.calls()
		assert.Zero(t, deletes)
	})
}

func TestPipelineMetadata(t *testing.T) {
	t.Run("returns metadata for a stored object", func(t *testing.T) {
		store := &fakeBlobStore{meta: upload.ObjectMeta{
			Key:         "inspections/G-100/1700000000000_photo.jpg",
			Size:        512,
			ContentType: "image/jpeg",
		}}
		pipeline := newTestPipeline(store)

		meta, ok := pipeline.Metadata(context.Background(), "https://store.example.com/anything")
		require.True(t, ok)
		assert.EqualValues(t, 512, meta.Size)
	})

	t.Run("reports absent for a missing object", func(t *testing.T) {
		store := &fakeBlobStore{metaErr: errors.New("no such key")}
		pipeline := newTestPipeline(store)

		_, ok := pipeline.Metadata(context.Background(), "https://store.example.com/anything")
		assert.False(t, ok)
	})

	t.Run("reports absent for an empty URL without a store call", func(t *testing.T) {
		pipeline := newTestPipeline(&fakeBlobStore{})

		_, ok := pipeline.Metadata(context.Background(), "")
		assert.False(t, ok)
	})
}

func TestPipelineTestConnection(t *testing.T) {
	t.Run("writes and deletes a probe object", func(t *testing.T) {
		store := &fakeBlobStore{}
		pipeline := newTestPipeline(store)

		require.NoError(t, pipeline.TestConnection(context.Background()))
		puts, deletes := store.calls()
		assert.Equal(t, 1, puts)
		assert.Equal(t, 1, deletes)
		assert.Equal(t, "test-connection", store.putKey)
	})

	t.Run("classifies a denied probe", func(t *testing.T) {
		store := &fakeBlobStore{putErr: errors.New("Access Denied.")}
		pipeline := newTestPipeline(store)

		err := pipeline.TestConnection(context.Background())
		var classified *upload.Error
		require.ErrorAs(t, err, &classified)
		assert.Equal(t, upload.KindAuthorization, classified.Kind)
	})
}
