package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cockroachdb/errors"
	"github.com/flexprice/invoicedoc/internal/config"
	ierr "github.com/flexprice/invoicedoc/internal/errors"
	invtypes "github.com/flexprice/invoicedoc/internal/types"
)

const (
	defaultPresignExpiryDuration = 30 * time.Minute
)

var (
	validDocumentTypes = []DocumentType{DocumentTypeInvoice}
)

type Service interface {
	UploadDocument(ctx context.Context, document *Document) error
	GetPresignedUrl(ctx context.Context, id string, docType DocumentType) (string, error)
	GetDocument(ctx context.Context, id string, docType DocumentType) ([]byte, error)
	Exists(ctx context.Context, id string, docType DocumentType) (bool, error)
}

// ObjectAPI is the part of *s3.Client the service uses
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// PresignAPI is the part of *s3.PresignClient the service uses
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type s3ServiceImpl struct {
	client    ObjectAPI
	presigner PresignAPI
	config    *config.S3Config
}

// NewService returns nil when documents are not archived to s3
func NewService(cfg *config.Configuration) (Service, error) {
	if cfg.Archive.Mode != invtypes.ArchiveModeS3 {
		return nil, nil
	}

	if cfg.Archive.S3.Bucket == "" {
		return nil, ierr.NewError("s3 archive bucket is not configured").
			WithHint("Set archive.s3.bucket when archive.mode is s3").
			Mark(ierr.ErrValidation)
	}

	awsCfg, err := config.LoadAwsConfig(context.Background(), cfg.Archive.S3.Region)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	client := config.NewS3Client(awsCfg)
	return NewServiceWithClient(&cfg.Archive.S3, client, s3.NewPresignClient(client)), nil
}

// NewServiceWithClient wires explicit clients, for tests and custom endpoints
func NewServiceWithClient(cfg *config.S3Config, client ObjectAPI, presigner PresignAPI) Service {
	return &s3ServiceImpl{
		client:    client,
		presigner: presigner,
		config:    cfg,
	}
}

func (s *s3ServiceImpl) getObjectKey(id string, docType DocumentType) (string, error) {
	switch docType {
	case DocumentTypeInvoice:
		if s.config.KeyPrefix != "" {
			return fmt.Sprintf("%s/%s.pdf", s.config.KeyPrefix, id), nil
		}
		return fmt.Sprintf("%s.pdf", id), nil
	default:
		return "", ierr.NewErrorf("invalid doc type: %s", docType).
			WithHintf("valid doc types are: %v", validDocumentTypes).
			Mark(ierr.ErrSystem)
	}
}

func (s *s3ServiceImpl) getContentType(docKind DocumentKind) string {
	switch docKind {
	case DocumentKindPdf:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Exists implements Service.
func (s *s3ServiceImpl) Exists(ctx context.Context, id string, docType DocumentType) (bool, error) {
	key, err := s.getObjectKey(id, docType)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		var nsk *types.NoSuchKey
		var nske *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nske) {
			return false, nil
		}
		return false, ierr.WithError(err).WithHint("failed to check if document exists").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	return true, nil
}

// GetPresignedUrl implements Service.
func (s *s3ServiceImpl) GetPresignedUrl(ctx context.Context, id string, docType DocumentType) (string, error) {
	key, err := s.getObjectKey(id, docType)
	if err != nil {
		return "", err
	}

	duration, err := time.ParseDuration(s.config.PresignExpiryDuration)
	if err != nil {
		duration = defaultPresignExpiryDuration
	}

	result, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(duration))
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to get presigned url").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	return result.URL, nil
}

// UploadDocument implements Service.
func (s *s3ServiceImpl) UploadDocument(ctx context.Context, document *Document) error {
	key, err := s.getObjectKey(document.ID, document.Type)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(document.Data),
		ContentType: aws.String(s.getContentType(document.Kind)),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to upload document").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	return nil
}

// GetDocument implements Service.
func (s *s3ServiceImpl) GetDocument(ctx context.Context, id string, docType DocumentType) ([]byte, error) {
	key, err := s.getObjectKey(id, docType)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ierr.WithError(err).WithHintf("document %s not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithHint("failed to get document").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	defer result.Body.Close()

	return io.ReadAll(result.Body)
}
