package upload

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goto/salt/log"

	"github.com/goroads/kerbside/core/user"
	"github.com/goroads/kerbside/pkg/statsd"
)

//go:generate mockery --name=BlobStore -r --case underscore --with-expecter --structname BlobStore --filename blob_store_mock.go --output=./mocks

// BlobStore is the storage collaborator the pipeline writes photos
// through. Implementations are externally synchronized; the pipeline
// adds no client-side locking.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string, metadata map[string]string) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Metadata(ctx context.Context, url string) (ObjectMeta, error)
}

// ObjectMeta describes a stored object.
type ObjectMeta struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	LastModified time.Time         `json:"last_modified"`
	UserMetadata map[string]string `json:"user_metadata,omitempty"`
}

// File is the candidate photo handed to Upload: raw payload plus the
// declared media type and byte length.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// DefaultCategory is the storage category photos land under when the
// caller does not pick one.
const DefaultCategory = "inspections"

// MaxFileSize is the upload ceiling, 10 MiB.
const MaxFileSize = 10 << 20

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Metadata keys attached to every stored photo for audit purposes.
const (
	metaUploadedBy      = "uploaded-by"
	metaAssetID         = "asset-id"
	metaUploadTimestamp = "upload-timestamp"
	metaOriginalName    = "original-filename"
	metaFileSize        = "file-size"
)

const probeKey = "test-connection"

// Pipeline moves a local photo into durable storage with progress
// reporting, validation and error classification. It holds no state
// across uploads; each call owns one transient transfer.
type Pipeline struct {
	store   BlobStore
	users   user.Provider
	logger  log.Logger
	metrics *statsd.Reporter
	now     func() time.Time
}

// PipelineDeps carries the pipeline's collaborators. Store is mandatory.
// Clock is optional and exists so key derivation is deterministic under
// test.
type PipelineDeps struct {
	Store   BlobStore
	Users   user.Provider
	Logger  log.Logger
	Metrics *statsd.Reporter
	Clock   func() time.Time
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNoop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	return &Pipeline{
		store:   deps.Store,
		users:   deps.Users,
		logger:  logger,
		metrics: deps.Metrics,
		now:     now,
	}
}

// Watch validates the file and streams the transfer as tagged events:
// zero or more Progress events in non-decreasing percentage order, then
// exactly one Success or Failure, then the channel closes. Validation
// failures surface before the store is touched at all.
//
// Consumers must drain the channel until it closes or cancel ctx;
// cancelling abandons observation but the transfer already handed to the
// store may still complete.
func (p *Pipeline) Watch(ctx context.Context, file *File, assetID, category string) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		emit := func(e Event) bool {
			select {
			case events <- e:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if err := validate(file, assetID); err != nil {
			emit(Event{Kind: EventFailure, Err: err})
			return
		}
		if category == "" {
			category = DefaultCategory
		}

		started := p.now()
		key := ObjectKey(category, assetID, file.Name, started)
		metadata := p.buildMetadata(ctx, file, assetID, started)

		p.logger.Info("photo upload started", "asset", assetID, "key", key, "size", file.Size)

		lastPct := 0
		reader := &progressReader{
			r:     file.Content,
			total: file.Size,
			report: func(pct int) {
				if pct > lastPct {
					lastPct = pct
					emit(Event{Kind: EventProgress, Pct: pct})
				}
			},
		}

		if err := p.store.Put(ctx, key, reader, file.Size, file.ContentType, metadata); err != nil {
			classified := Classify(err)
			p.logger.Error("photo upload failed", "asset", assetID, "key", key, "kind", string(classified.Kind), "err", err)
			p.instrument("Upload", started, classified)
			emit(Event{Kind: EventFailure, Err: classified})
			return
		}

		url, err := p.store.URL(ctx, key)
		if err != nil {
			classified := &Error{Kind: KindUnknown, Reason: "failed to get download URL", Err: err}
			p.logger.Error("photo uploaded but reference URL unavailable", "asset", assetID, "key", key, "err", err)
			p.instrument("Upload", started, classified)
			emit(Event{Kind: EventFailure, Err: classified})
			return
		}

		if lastPct < 100 {
			if !emit(Event{Kind: EventProgress, Pct: 100}) {
				return
			}
		}

		p.logger.Info("photo uploaded", "asset", assetID, "key", key, "url", url)
		p.instrument("Upload", started, nil)
		emit(Event{Kind: EventSuccess, URL: url})
	}()

	return events
}

// Upload runs the pipeline to completion and returns the durable
// reference URL, or the single classified error for this attempt.
func (p *Pipeline) Upload(ctx context.Context, file *File, assetID, category string) (string, error) {
	for event := range p.Watch(ctx, file, assetID, category) {
		switch event.Kind {
		case EventSuccess:
			return event.URL, nil
		case EventFailure:
			return "", event.Err
		}
	}
	if err := ctx.Err(); err != nil {
		return "", Classify(err)
	}
	return "", &Error{Kind: KindUnknown, Reason: "upload ended without a result"}
}

// DeletePhoto removes a previously uploaded photo, best effort. A
// dangling blob is an acceptable degraded state, so failures are logged
// and swallowed rather than propagated into the calling flow.
func (p *Pipeline) DeletePhoto(ctx context.Context, url, assetID, category string) {
	if url == "" {
		p.logger.Debug("no photo URL provided for deletion")
		return
	}
	if category == "" {
		category = DefaultCategory
	}

	key := keyFromURL(url, category, assetID)
	if err := p.store.Delete(ctx, key); err != nil {
		p.logger.Warn("photo deletion failed", "asset", assetID, "key", key, "err", err)
		return
	}
	p.logger.Info("photo deleted", "asset", assetID, "key", key)
}

// Metadata looks up the stored metadata for a reference URL, best
// effort: an invalid reference or a missing object yields an explicit
// absent result, never an error.
func (p *Pipeline) Metadata(ctx context.Context, url string) (ObjectMeta, bool) {
	if url == "" {
		return ObjectMeta{}, false
	}

	meta, err := p.store.Metadata(ctx, url)
	if err != nil {
		p.logger.Warn("photo metadata lookup failed", "url", url, "err", err)
		return ObjectMeta{}, false
	}
	return meta, true
}

// TestConnection writes and immediately deletes a small probe object to
// confirm the blob store is reachable and authorized. Startup health
// check only, not part of the upload path.
func (p *Pipeline) TestConnection(ctx context.Context) error {
	payload := "test"
	if err := p.store.Put(ctx, probeKey, strings.NewReader(payload), int64(len(payload)), "text/plain", nil); err != nil {
		return Classify(err)
	}
	if err := p.store.Delete(ctx, probeKey); err != nil {
		return Classify(err)
	}
	return nil
}

func (p *Pipeline) buildMetadata(ctx context.Context, file *File, assetID string, ts time.Time) map[string]string {
	uploadedBy := "unknown"
	if p.users != nil {
		if usr, err := p.users.CurrentUser(ctx); err == nil {
			uploadedBy = usr.Email
		}
	}

	return map[string]string{
		metaUploadedBy:      uploadedBy,
		metaAssetID:         assetID,
		metaUploadTimestamp: strconv.FormatInt(ts.UnixMilli(), 10),
		metaOriginalName:    file.Name,
		metaFileSize:        strconv.FormatInt(file.Size, 10),
	}
}

func (p *Pipeline) instrument(op string, started time.Time, err *Error) {
	if p.metrics == nil {
		return
	}
	m := p.metrics.Timing("uploadPipeline", time.Since(started)).Tag("operation", op)
	if err != nil {
		m.Failure(err).Tag("kind", string(err.Kind))
	} else {
		m.Success()
	}
	m.Publish()
}

func validate(file *File, assetID string) *Error {
	if file == nil || file.Content == nil {
		return validationError("no file provided for upload")
	}
	if assetID == "" {
		return validationError("no asset ID provided for upload")
	}
	if _, ok := allowedContentTypes[file.ContentType]; !ok {
		return validationError("invalid file type %q, only JPG, PNG, GIF and WebP images are allowed", file.ContentType)
	}
	if file.Size > MaxFileSize {
		return validationError("file too large, maximum size is 10MB")
	}
	return nil
}

// progressReader reports transfer percentages as the store drains the
// payload: round(done/total*100), clamped to 100 in case more bytes come
// through than were declared.
type progressReader struct {
	r      io.Reader
	total  int64
	done   int64
	report func(pct int)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 && pr.total > 0 {
		pr.done += int64(n)
		pct := int(math.Round(float64(pr.done) / float64(pr.total) * 100))
		if pct > 100 {
			pct = 100
		}
		pr.report(pct)
	}
	return n, err
}
