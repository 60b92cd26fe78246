package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"clipfeed/internal/config"
	"clipfeed/internal/model"
)

// objectPresigner is the part of *s3.PresignClient used here.
type objectPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// MediaService hands out presigned PUT URLs for Cloudflare R2.
// The backend never sees the uploaded bytes.
type MediaService struct {
	presigner objectPresigner
	bucket    string
	publicURL string
	ttl       time.Duration
	newKey    func() string
}

// NewMediaService constructs an S3-compatible presign client for Cloudflare R2.
// It returns model.ErrUploadsDisabled when the R2 settings are incomplete.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if !cfg.UploadsEnabled() {
		return nil, model.ErrUploadsDisabled
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return newMediaService(s3.NewPresignClient(s3Client), cfg), nil
}

func newMediaService(p objectPresigner, cfg *config.Config) *MediaService {
	return &MediaService{
		presigner: p,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
		ttl:       time.Duration(cfg.PresignTTL) * time.Second,
		newKey:    uuid.NewString,
	}
}

// PresignUpload validates the requested object and signs a PUT for it.
func (s *MediaService) PresignUpload(ctx context.Context, req *model.PresignRequest) (*model.PresignResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ext, _ := model.FileExtension(req.Kind, req.ContentType)
	key := fmt.Sprintf("%s/%d/%s%s", model.FolderFor(req.Kind), req.UserID, s.newKey(), ext)

	signed, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to presign r2 upload: %w", err)
	}

	log.Printf("[MediaService] Presigned %s upload: user=%d key=%s", req.Kind, req.UserID, key)

	return &model.PresignResponse{
		UploadURL:  signed.URL,
		PublicURL:  fmt.Sprintf("%s/%s", s.publicURL, key),
		Key:        key,
		ExpiresInS: int(s.ttl / time.Second),
	}, nil
}
