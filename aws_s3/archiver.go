package aws_s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SharedCode/guardian"
)

// uploader is the slice of manager.Uploader the archiver needs, kept as an
// interface so tests can run without an S3 endpoint.
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Archiver buffers moderation events and flushes them to a bucket in batches.
// Archival is best effort, a failed flush only logs: the Cassandra event
// table remains the source of truth.
type Archiver struct {
	uploader  uploader
	bucket    string
	prefix    string
	batchSize int

	mux sync.Mutex
	buf []guardian.ModerationEvent
}

// Now returns the current time and can be "synthesized" if needed.
var Now = time.Now

// NewArchiver returns an Archiver writing batches of batchSize events under
// prefix in the given bucket. batchSize defaults to 100 when <= 0.
func NewArchiver(s3Client *s3.Client, bucket string, prefix string, batchSize int) *Archiver {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Archiver{
		uploader:  manager.NewUploader(s3Client),
		bucket:    bucket,
		prefix:    prefix,
		batchSize: batchSize,
	}
}

// Add buffers one event and flushes when the batch is full.
func (a *Archiver) Add(ctx context.Context, event guardian.ModerationEvent) {
	a.mux.Lock()
	a.buf = append(a.buf, event)
	full := len(a.buf) >= a.batchSize
	a.mux.Unlock()
	if full {
		if err := a.Flush(ctx); err != nil {
			log.Warn(fmt.Sprintf("event archive flush failed, details: %v", err))
		}
	}
}

// Flush uploads all buffered events, one JSON object per batchSize chunk,
// chunks uploaded concurrently. Returns the first upload error, if any.
func (a *Archiver) Flush(ctx context.Context) error {
	a.mux.Lock()
	batch := a.buf
	a.buf = nil
	a.mux.Unlock()
	if len(batch) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < len(batch); i += a.batchSize {
		chunk := batch[i:min(i+a.batchSize, len(batch))]
		g.Go(func() error {
			return a.upload(ctx, chunk)
		})
	}
	return g.Wait()
}

func (a *Archiver) upload(ctx context.Context, events []guardian.ModerationEvent) error {
	ba, err := json.Marshal(events)
	if err != nil {
		return err
	}
	key := a.objectKey(Now().UTC())
	_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(ba),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("couldn't upload archive object %s to bucket %s, details: %v", key, a.bucket, err)
	}
	return nil
}

// objectKey partitions archive objects by day so downstream scans can prune.
func (a *Archiver) objectKey(now time.Time) string {
	return fmt.Sprintf("%s/%s/%s.json", a.prefix, now.Format("2006-01-02"), uuid.New().String())
}
