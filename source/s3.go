package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/bitrise-io/go-utils/v2/log"
)

// s3Client is the part of *s3.Client the resolver uses.
type s3Client interface {
	manager.DownloadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type s3Location struct {
	bucket string
	key    string
}

func parseS3URL(location string) (s3Location, error) {
	parsedURL, err := url.Parse(location)
	if err != nil {
		return s3Location{}, fmt.Errorf("invalid S3 URL %s: %w", location, err)
	}

	key := strings.TrimPrefix(parsedURL.Path, "/")
	if parsedURL.Host == "" || key == "" || strings.HasSuffix(key, "/") {
		return s3Location{}, fmt.Errorf("invalid S3 URL %s: expected s3://bucket/key", location)
	}

	return s3Location{bucket: parsedURL.Host, key: key}, nil
}

func (r *resolver) resolveS3(ctx context.Context, location string) (File, error) {
	object, err := parseS3URL(location)
	if err != nil {
		return File{}, err
	}

	client, err := r.newS3Client(ctx, r.s3Params, r.logger)
	if err != nil {
		return File{}, err
	}

	if _, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(object.bucket),
		Key:    aws.String(object.key),
	}); err != nil {
		var apiError smithy.APIError
		if errors.As(err, &apiError) {
			switch apiError.(type) {
			case *types.NotFound, *types.NoSuchKey:
				return File{}, fmt.Errorf("%w: %s", ErrNotFound, location)
			default:
				return File{}, fmt.Errorf("aws api error: %w", err)
			}
		}
		return File{}, fmt.Errorf("generic aws error: %w", err)
	}

	dir, err := r.createTempDir()
	if err != nil {
		return File{}, err
	}

	name := path.Base(object.key)
	localPath := filepath.Join(dir, name)
	r.logger.Infof("Downloading %s", location)
	if err := r.downloadObject(ctx, client, object, localPath); err != nil {
		r.removeDir(dir)
		return File{}, fmt.Errorf("failed to download %s: %w", location, err)
	}

	return r.tempFile(dir, localPath, name)
}

func (r *resolver) downloadObject(ctx context.Context, client s3Client, object s3Location, dest string) error {
	file, err := r.osProxy.Create(dest)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	downloader := manager.NewDownloader(client)
	written, err := downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(object.bucket),
		Key:    aws.String(object.key),
	})
	if err != nil {
		return fmt.Errorf("get object: %w", err)
	}
	r.logger.Debugf("Downloaded %d bytes from s3://%s/%s", written, object.bucket, object.key)

	return nil
}

func newS3Client(ctx context.Context, params S3Params, logger log.Logger) (s3Client, error) {
	cfg, err := loadAWSCredentials(ctx, params.Region, params.AccessKeyID, params.SecretAccessKey, logger)
	if err != nil {
		return nil, fmt.Errorf("load aws credentials: %w", err)
	}
	return s3.NewFromConfig(*cfg), nil
}

func loadAWSCredentials(
	ctx context.Context,
	region string,
	accessKeyID string,
	secretKey string,
	logger log.Logger,
) (*aws.Config, error) {
	if region == "" {
		return nil, fmt.Errorf("region must not be empty")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if accessKeyID != "" && secretKey != "" {
		logger.Debugf("aws credentials provided, using them...")
		opts = append(opts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config, %v", err)
	}

	return &cfg, nil
}
