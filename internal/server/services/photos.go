package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/eventaura/internal/common"
	sc "github.com/dmitrijs2005/eventaura/internal/server/config"
	"github.com/google/uuid"
)

const photoUploadExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// PhotoUpload tells a client where to PUT a profile photo and the URL to
// register with afterwards.
type PhotoUpload struct {
	Key       string
	UploadURL string
	PhotoURL  string
}

type PhotoService struct {
	config *sc.Config
	now    func() time.Time
}

func NewPhotoService(config *sc.Config) *PhotoService {
	return &PhotoService{config: config, now: time.Now}
}

// Enabled reports whether a bucket is configured.
func (s *PhotoService) Enabled() bool {
	return s.config.PhotoStorageEnabled()
}

func (s *PhotoService) storageKey() string {
	d := s.now()
	return fmt.Sprintf("profiles/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *PhotoService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a presigned PUT for a fresh object key.
func (s *PhotoService) PresignUpload(ctx context.Context, contentType string) (*PhotoUpload, error) {
	if !s.Enabled() {
		return nil, common.ErrStorageNotConfigured
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := s.storageKey()

	in := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(photoUploadExpiry))
	if err != nil {
		return nil, err
	}

	return &PhotoUpload{Key: key, UploadURL: req.URL, PhotoURL: s.publicURL(key)}, nil
}

func (s *PhotoService) publicURL(key string) string {
	if s.config.S3BaseEndpoint != "" {
		return strings.TrimRight(s.config.S3BaseEndpoint, "/") + "/" + s.config.S3Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.S3Bucket, s.config.S3Region, key)
}
