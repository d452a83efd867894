package report

import (
	"context"
	"fmt"

	verrors "github.com/colbench/colbench/internal/errors"
	"github.com/colbench/colbench/internal/storage"
)

// SinkOptions selects the destination for run artifacts.
type SinkOptions struct {
	// Type is "local" or "s3".
	Type string
	// LocalPath is the storage root for the local type.
	LocalPath string
	// Bucket, Region, and Endpoint configure the s3 type.
	Bucket   string
	Region   string
	Endpoint string
}

// Sink ships run artifacts to object storage under a per-run prefix,
// so repeated runs never clobber each other.
type Sink struct {
	st     storage.ObjectStorage
	prefix string
}

// NewSink builds the artifact destination for one run.
func NewSink(ctx context.Context, opts SinkOptions, runID string) (*Sink, error) {
	var st storage.ObjectStorage
	var err error

	switch opts.Type {
	case "", "local":
		st, err = storage.NewLocalStorage(opts.LocalPath)
		if err != nil {
			return nil, verrors.NewStorageError("failed to open local artifact storage", err)
		}
	case "s3":
		if opts.Bucket == "" {
			return nil, verrors.NewInvalidParameter("s3 artifact sink requires a bucket")
		}
		cfg := storage.DefaultS3Config()
		if opts.Region != "" {
			cfg.Region = opts.Region
		}
		cfg.Endpoint = opts.Endpoint
		st, err = storage.NewS3Storage(ctx, opts.Bucket, cfg)
		if err != nil {
			return nil, verrors.NewStorageError("failed to open s3 artifact storage", err)
		}
	default:
		return nil, verrors.NewInvalidParameter(fmt.Sprintf("unknown artifact sink type: %s", opts.Type))
	}

	return &Sink{st: st, prefix: "bench/" + runID}, nil
}

// Put uploads a local file under the run's prefix.
func (s *Sink) Put(ctx context.Context, localPath, name string) error {
	if err := s.st.Upload(ctx, localPath, s.prefix+"/"+name); err != nil {
		return verrors.NewStorageError("failed to upload artifact", err)
	}
	return nil
}

// Prefix returns the run's object path prefix.
func (s *Sink) Prefix() string {
	return s.prefix
}
