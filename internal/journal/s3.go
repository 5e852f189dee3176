package journal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrInvalidLocation is returned for malformed s3:// locations.
var ErrInvalidLocation = errors.New("journal: invalid s3 location")

// PutObjectAPI is the part of *s3.Client the S3 sink uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Location is a parsed s3://bucket/key location.
type Location struct {
	Bucket string
	Key    string
}

// IsS3 reports whether path names an S3 location.
func IsS3(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// ParseLocation parses s3://bucket/key. A key ending in "/" is a prefix;
// Object appends a timestamped file name to it.
func ParseLocation(path string) (Location, error) {
	rest, ok := strings.CutPrefix(path, "s3://")
	if !ok {
		return Location{}, fmt.Errorf("%w: %q lacks the s3:// scheme", ErrInvalidLocation, path)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("%w: missing bucket in %q", ErrInvalidLocation, path)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// IsPrefix reports whether the key names a directory-like prefix.
func (l Location) IsPrefix() bool {
	return l.Key == "" || strings.HasSuffix(l.Key, "/")
}

// Object returns the object key to write at time t.
func (l Location) Object(t time.Time) string {
	if !l.IsPrefix() {
		return l.Key
	}
	return l.Key + "changetree-" + t.UTC().Format("20060102T150405.000Z") + ".jsonl"
}

// S3Options configures the S3 client built by NewS3Client.
type S3Options struct {
	Region       string
	Endpoint     string
	UsePathStyle bool

	// Client replaces the client NewS3Client would build.
	Client PutObjectAPI
}

// NewS3Client builds an S3 client with credentials from the standard
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN variables.
func NewS3Client(opts S3Options) *s3.Client {
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	creds := aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, errors.New("journal: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}, nil
	}))

	return s3.New(s3.Options{
		Region:       region,
		Credentials:  creds,
		UsePathStyle: opts.UsePathStyle,
		BaseEndpoint: endpoint(opts.Endpoint),
	})
}

func endpoint(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

// S3Sink buffers records in memory and uploads them as a JSON lines object
// on Flush. With a prefix location each flush creates a new object holding
// the records since the previous flush; with a fixed key the object is
// rewritten with every record so far.
type S3Sink struct {
	client   PutObjectAPI
	location Location
	now      func() time.Time

	mu      sync.Mutex
	buf     bytes.Buffer
	pending int
	writer  *WriterSink
}

// NewS3Sink returns a sink uploading to location through client.
func NewS3Sink(client PutObjectAPI, location Location) *S3Sink {
	s := &S3Sink{
		client:   client,
		location: location,
		now:      time.Now,
	}
	s.writer = NewWriterSink(&s.buf)
	return s
}

// Write implements Sink.
func (s *S3Sink) Write(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Write(r); err != nil {
		return err
	}
	s.pending++
	return nil
}

// Pending returns the number of records not yet uploaded.
func (s *S3Sink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Flush uploads everything written so far and returns the object key.
// Nothing is uploaded when no record is pending.
func (s *S3Sink) Flush(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == 0 {
		return "", nil
	}

	key := s.location.Object(s.now())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.location.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(s.buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
		Metadata: map[string]string{
			"records":     fmt.Sprint(s.pending),
			"upload-time": s.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	if s.location.IsPrefix() {
		s.buf.Reset()
	}
	s.pending = 0
	return key, nil
}
