// Package objectstore resolves public URLs for the photo images hosted in S3.
package objectstore

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const imagePrefix = "images/"

// Store knows the bucket holding the photo images. Filenames from the
// catalog are already percent-encoded, so they are appended to the URL
// as-is.
type Store struct {
	bucket string
	region string
	client *s3.Client
}

// New builds the store and its S3 client. An empty bucket disables photo
// URLs and returns (nil, nil).
func New(ctx context.Context, bucket, region string) (*Store, error) {
	if bucket == "" {
		return nil, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Store{
		bucket: bucket,
		region: region,
		client: s3.NewFromConfig(cfg),
	}, nil
}

// Probe verifies the bucket is reachable with the current credentials. The
// chat handler only advertises photo URLs when the probe succeeded at
// startup.
func (s *Store) Probe(ctx context.Context) bool {
	if s == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		log.Printf("s3 connection test failed: %v", err)
		return false
	}
	return true
}

// ImageURL returns the public URL for a catalog image.
func (s *Store) ImageURL(filename string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s%s", s.bucket, s.region, imagePrefix, filename)
}
