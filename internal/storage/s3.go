// Package storage wraps the object store that holds uploaded label images.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageStore stores label images in an S3-compatible bucket and hands out
// stable public URLs for them. Works against AWS S3 and minio alike; minio
// needs the custom endpoint and path-style addressing.
type ImageStore struct {
	client     *s3.Client
	bucket     string
	region     string
	publicBase string
}

// NewImageStore builds the S3 client. Static credentials are taken from
// S3_ACCESS_KEY / S3_SECRET_KEY when both are set, otherwise the default AWS
// credential chain applies.
func NewImageStore(ctx context.Context, bucket, region, endpoint, publicBase string) (*ImageStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if ak, sk := os.Getenv("S3_ACCESS_KEY"), os.Getenv("S3_SECRET_KEY"); ak != "" && sk != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ak, sk, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &ImageStore{
		client:     client,
		bucket:     bucket,
		region:     region,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

// NewImageKey returns a unique storage key for an uploaded file, keeping the
// original extension so content negotiation stays simple.
func NewImageKey(ext string) string {
	d := time.Now().UTC()
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("products/%d/%02d/%v.%s", d.Year(), d.Month(), uuid.New(), ext)
}

// Put uploads one object.
func (s *ImageStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

// PublicURL returns the URL under which a stored object is reachable. A
// configured public base (CDN, minio proxy) wins over the AWS convention.
func (s *ImageStore) PublicURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
