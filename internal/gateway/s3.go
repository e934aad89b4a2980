// SPDX-License-Identifier: MIT

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/rsvideo/console/internal/record"
)

// S3Config holds connection settings for an S3-compatible bucket. The
// production document lives in a Cloudflare R2 bucket, which speaks the S3
// API with a custom endpoint and path-style addressing.
type S3Config struct {
	Endpoint       string
	Region         string
	Bucket         string
	Key            string // object key, defaults to DocumentName
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// S3Gateway persists the document as a single object in a bucket.
type S3Gateway struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3 creates a gateway against an S3-compatible bucket.
func NewS3(ctx context.Context, cfg S3Config) (*S3Gateway, error) {
	region := cfg.Region
	if region == "" {
		region = "auto" // R2 convention
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = DocumentName
	}
	return &S3Gateway{client: client, bucket: cfg.Bucket, key: key}, nil
}

// Fetch gets and decodes the document object. A missing key is an empty list.
func (g *S3Gateway) Fetch(ctx context.Context) ([]record.VideoRecord, error) {
	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(g.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return []record.VideoRecord{}, nil
		}
		return nil, &TransportError{Op: "fetch", Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &TransportError{Op: "fetch", Err: err}
	}

	var records []record.VideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &TransportError{Op: "fetch", Err: fmt.Errorf("decode document: %w", err)}
	}
	if records == nil {
		records = []record.VideoRecord{}
	}
	return records, nil
}

// Put replaces the document object wholesale.
func (g *S3Gateway) Put(ctx context.Context, doc []byte) error {
	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(g.key),
		Body:        bytes.NewReader(doc),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return &TransportError{Op: "put", Err: err}
	}
	return nil
}
