package journal

import (
	"context"
	"os"
)

// Journal is an opened journal destination.
type Journal struct {
	Sink

	location string
	close    func(ctx context.Context) error
}

// Open opens the journal at path: "-" for stdout, s3://bucket/key for an S3
// object, anything else for a local file.
func Open(path string, opts S3Options) (*Journal, error) {
	switch {
	case path == "-":
		return &Journal{
			Sink:     NewWriterSink(os.Stdout),
			location: "stdout",
			close:    func(context.Context) error { return nil },
		}, nil

	case IsS3(path):
		loc, err := ParseLocation(path)
		if err != nil {
			return nil, err
		}
		client := opts.Client
		if client == nil {
			client = NewS3Client(opts)
		}
		sink := NewS3Sink(client, loc)
		return &Journal{
			Sink:     sink,
			location: path,
			close: func(ctx context.Context) error {
				_, err := sink.Flush(ctx)
				return err
			},
		}, nil

	default:
		sink, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		return &Journal{
			Sink:     sink,
			location: path,
			close:    func(context.Context) error { return sink.Close() },
		}, nil
	}
}

// Location returns where the journal writes.
func (j *Journal) Location() string {
	return j.location
}

// Close flushes pending records and releases the destination.
func (j *Journal) Close(ctx context.Context) error {
	return j.close(ctx)
}
