//go:build e2e

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
)

// usage: go test -tags e2e ./cmd/amlgraph/...

var binPath string

const network = `{
  "nodes": [
    {"id": "A", "label": "Alpha Holdings", "entity_type": "organization", "risk_score": 95},
    {"id": "B", "label": "Bruno", "risk_score": 50},
    {"id": "C", "label": "Carla", "risk_score": 10}
  ],
  "edges": [
    {"id": "ab", "source": "A", "target": "B", "type": "business_partner", "risk_weight": 0.9},
    {"id": "bc", "source": "B", "target": "C", "type": "family", "risk_weight": 0.2}
  ]
}`

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "amlgraph-e2e")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	binPath = filepath.Join(dir, "amlgraph")

	build := exec.Command("go", "build", "-o", binPath, ".")
	if out, err := build.CombinedOutput(); err != nil {
		fmt.Printf("Build failed: %s\n", out)
		os.RemoveAll(dir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func runBinary(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binPath, args...)
	cmd.Env = append(os.Environ(), env...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

func TestAnalyzeLocalPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.json")
	require.NoError(t, os.WriteFile(path, []byte(network), 0o600))

	out, err := runBinary(t, nil, "analyze", path, "--center", "B")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Graph:    3 nodes, 2 edges")
	assert.Contains(t, out, "Center:   B")
}

// TestMalformedPayloadDegrades ensures broken input renders as "no data"
// instead of failing the process.
func TestMalformedPayloadDegrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": [`), 0o600))

	out, err := runBinary(t, nil, "analyze", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "No network data.")
}

func TestAnalyzeFromS3(t *testing.T) {
	ctx := context.Background()
	container, err := localstack.Run(ctx, "localstack/localstack:3.0")
	require.NoError(t, err, "start LocalStack")
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	}()

	endpoint, err := container.PortEndpoint(ctx, "4566/tcp", "http")
	require.NoError(t, err)

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "test", SecretAccessKey: "test"}, nil
		})),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String("cases")})
	require.NoError(t, err)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String("cases"),
		Key:    aws.String("42/network.json"),
		Body:   bytes.NewReader([]byte(network)),
	})
	require.NoError(t, err)

	env := []string{
		"AWS_ACCESS_KEY_ID=test",
		"AWS_SECRET_ACCESS_KEY=test",
		"AWS_ENDPOINT_URL=" + endpoint,
	}
	out, err := runBinary(t, env, "analyze", "s3://cases/42/network.json",
		"--region", "us-east-1", "--s3-endpoint", endpoint)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Graph:    3 nodes, 2 edges")
	assert.Contains(t, out, "account=000000000000")
}
