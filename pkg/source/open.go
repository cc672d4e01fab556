package source

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// Location is a parsed payload URI.
type Location struct {
	Bucket string
	Key    string
	Local  bool
}

// Parse understands s3://bucket/key and plain filesystem paths.
func Parse(uri string) (Location, error) {
	if rest, ok := strings.CutPrefix(uri, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("invalid s3 uri %q", uri)
		}
		return Location{Bucket: bucket, Key: key}, nil
	}
	if uri == "" {
		return Location{}, fmt.Errorf("empty payload location")
	}
	return Location{Key: uri, Local: true}, nil
}

// Options tune remote stores.
type Options struct {
	AWS []func(*awsconfig.LoadOptions) error
	S3  []func(*s3.Options)
	// Logger, when set, receives one debug record per AWS API call.
	Logger *slog.Logger
}

// Open returns the store holding uri and the key inside it.
func Open(ctx context.Context, uri string, opts Options) (BlobStore, string, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, "", err
	}
	if loc.Local {
		return NewLocalStore(filepath.Dir(loc.Key)), filepath.Base(loc.Key), nil
	}

	cfg, err := loadAWSConfig(ctx, opts)
	if err != nil {
		return nil, "", err
	}
	return NewS3Store(cfg, loc.Bucket, opts.S3...), loc.Key, nil
}

// FormatFor guesses the payload encoding from the key's extension.
func FormatFor(key string) graph.Format {
	switch strings.ToLower(path.Ext(key)) {
	case ".yaml", ".yml":
		return graph.FormatYAML
	default:
		return graph.FormatJSON
	}
}

// Fetch reads uri and returns its bytes and format.
func Fetch(ctx context.Context, uri string, opts Options) ([]byte, graph.Format, error) {
	store, key, err := Open(ctx, uri, opts)
	if err != nil {
		return nil, "", err
	}
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return data, FormatFor(key), nil
}
