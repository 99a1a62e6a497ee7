// Package storage publishes a finished grid bundle to an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
)

type Config struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
}

// Enabled reports whether enough is configured to attempt an upload.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// objectAPI is the subset of the S3 client the uploader needs.
type objectAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Uploader struct {
	cfg    Config
	client objectAPI
	logger *log.Logger
}

// New builds an uploader against cfg.Endpoint with static credentials.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Uploader, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...any) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               cfg.Endpoint,
			SigningRegion:     cfg.Region,
			HostnameImmutable: true,
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newUploader(cfg, s3.NewFromConfig(awsCfg), logger), nil
}

func newUploader(cfg Config, client objectAPI, logger *log.Logger) *Uploader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Uploader{cfg: cfg, client: client, logger: logger}
}

// EnsureBucket creates the bucket when it cannot be found.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.cfg.Bucket),
	})
	if err == nil {
		return nil
	}
	_, err = u.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(u.cfg.Bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", u.cfg.Bucket, err)
	}
	u.logger.Info("created bucket", "bucket", u.cfg.Bucket)
	return nil
}

// contentTypes covers every file split.Image can produce.
var contentTypes = map[string]string{
	".png": "image/png",
	".txt": "text/plain; charset=utf-8",
	".zip": "application/zip",
}

// Key is the object key for a file name under the configured prefix.
func (u *Uploader) Key(name string) string {
	return path.Join(u.cfg.Prefix, filepath.ToSlash(name))
}

// UploadDir puts every bundle file directly inside dir and returns the keys
// in directory order. The first failure aborts the upload.
func (u *Uploader) UploadDir(ctx context.Context, dir string) ([]string, error) {
	if err := u.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, f := range files {
		ct, ok := contentTypes[strings.ToLower(filepath.Ext(f.Name()))]
		if f.IsDir() || !ok {
			continue
		}
		key, err := u.uploadFile(ctx, filepath.Join(dir, f.Name()), f.Name(), ct)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (u *Uploader) uploadFile(ctx context.Context, fpath, name, contentType string) (string, error) {
	file, err := os.Open(fpath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := u.Key(name)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	u.logger.Debug("uploaded", "key", key)
	return key, nil
}
