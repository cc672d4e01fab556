package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrSkyle/amlgraph/pkg/graph"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	require.NoError(t, s.Put(ctx, "cases/1/network.json", []byte(`{"nodes":[],"edges":[]}`)))
	require.NoError(t, s.Put(ctx, "cases/2/network.yaml", []byte("nodes: []\nedges: []\n")))

	data, err := s.Get(ctx, "cases/1/network.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, string(data))

	keys, err := s.List(ctx, "cases")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cases/1/network.json", "cases/2/network.yaml"}, keys)

	keys, err = s.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalStoreNotFoundAndEscape(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	_, err := s.Get(ctx, "nope.json")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Get(ctx, "../outside.json")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestParse(t *testing.T) {
	tests := []struct {
		uri     string
		want    Location
		wantErr bool
	}{
		{uri: "s3://aml-payloads/cases/7.json", want: Location{Bucket: "aml-payloads", Key: "cases/7.json"}},
		{uri: "./fixtures/net.yaml", want: Location{Key: "./fixtures/net.yaml", Local: true}},
		{uri: "s3://bucket-only", wantErr: true},
		{uri: "s3:///key", wantErr: true},
		{uri: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.uri)
		if tt.wantErr {
			assert.Error(t, err, tt.uri)
			continue
		}
		require.NoError(t, err, tt.uri)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, graph.FormatYAML, FormatFor("a/b.YML"))
	assert.Equal(t, graph.FormatYAML, FormatFor("net.yaml"))
	assert.Equal(t, graph.FormatJSON, FormatFor("net.json"))
	assert.Equal(t, graph.FormatJSON, FormatFor("net"))
}

func TestFetchLocal(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "network.yaml")
	require.NoError(t, os.WriteFile(p, []byte("nodes: []\nedges: []\n"), 0600))

	data, format, err := Fetch(context.Background(), p, Options{})
	require.NoError(t, err)
	assert.Equal(t, graph.FormatYAML, format)
	assert.Contains(t, string(data), "nodes")

	_, _, err = Fetch(context.Background(), filepath.Join(dir, "missing.json"), Options{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadAWSConfigMiddlewares(t *testing.T) {
	ctx := context.Background()
	base := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion("eu-west-1"),
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	}

	plain, err := loadAWSConfig(ctx, Options{AWS: base})
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", plain.Region)

	logged, err := loadAWSConfig(ctx, Options{AWS: base, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	assert.Len(t, logged.APIOptions, len(plain.APIOptions)+1)
}
