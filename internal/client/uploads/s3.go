package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/goblog/internal/client/config"
	"github.com/dmitrijs2005/goblog/internal/client/models"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// PutObjectAPI is the slice of the S3 client the sink needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink writes files to a bucket under prefix/yyyy/mm/dd/<uuid><ext>.
type S3Sink struct {
	client    PutObjectAPI
	bucket    string
	prefix    string
	publicURL string
	now       func() time.Time
}

// NewS3Sink builds a sink from the S3 settings in cfg. Static credentials
// are used when an access key is configured, the default AWS chain otherwise.
func NewS3Sink(ctx context.Context, cfg *config.Config) (*S3Sink, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3SinkWithClient(client, cfg.S3Bucket, cfg.S3Prefix, cfg.S3PublicURL), nil
}

func NewS3SinkWithClient(client PutObjectAPI, bucket, prefix, publicURL string) *S3Sink {
	return &S3Sink{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

func (s *S3Sink) objectKey(name string) string {
	d := s.now().UTC()
	return fmt.Sprintf("%s%04d/%02d/%02d/%s%s", s.prefix, d.Year(), d.Month(), d.Day(), uuid.NewString(), strings.ToLower(filepath.Ext(name)))
}

// Upload buffers content so the SDK can sign a seekable body.
func (s *S3Sink) Upload(ctx context.Context, name string, content io.Reader) (models.UploadResult, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("read %s: %w", name, err)
	}

	key := s.objectKey(name)
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return models.UploadResult{}, fmt.Errorf("put object %s: %w", key, err)
	}

	res := models.UploadResult{Path: key}
	if s.publicURL != "" {
		res.URL = s.publicURL + "/" + key
	}
	return res, nil
}
