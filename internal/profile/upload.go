// internal/profile/upload.go

package profile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// UploadService stores user media and returns a public URL for it
type UploadService interface {
	UploadFile(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error)
	DeleteFile(ctx context.Context, url string) error
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func uniqueFilename(original string) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
	return uuid.New().String() + ext, nil
}

// LocalUploadService stores files on the local filesystem, for
// development and single-node deployments
type LocalUploadService struct {
	uploadDir string
	baseURL   string
}

// NewLocalUploadService creates a local upload service
func NewLocalUploadService(uploadDir, baseURL string) UploadService {
	return &LocalUploadService{uploadDir: uploadDir, baseURL: baseURL}
}

func (s *LocalUploadService) UploadFile(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	filename, err := uniqueFilename(header.Filename)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.uploadDir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, folder, filename), nil
}

func (s *LocalUploadService) DeleteFile(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.baseURL) {
		return fmt.Errorf("url %q is not served from local storage", url)
	}
	relative := strings.TrimPrefix(strings.TrimPrefix(url, s.baseURL), "/")

	if err := os.Remove(filepath.Join(s.uploadDir, relative)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// S3UploadService stores files in an AWS S3 bucket
type S3UploadService struct {
	client  *s3.S3
	bucket  string
	baseURL string
}

// NewS3UploadService creates an S3-backed upload service
func NewS3UploadService(bucket, region string) (UploadService, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("create AWS session: %w", err)
	}

	return &S3UploadService{
		client:  s3.New(sess),
		bucket:  bucket,
		baseURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region),
	}, nil
}

func (s *S3UploadService) UploadFile(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	filename, err := uniqueFilename(header.Filename)
	if err != nil {
		return "", err
	}
	key := folder + "/" + filename

	body, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(header.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("upload to S3: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *S3UploadService) DeleteFile(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.baseURL) {
		return fmt.Errorf("url %q is not served from bucket %s", url, s.bucket)
	}
	key := strings.TrimPrefix(strings.TrimPrefix(url, s.baseURL), "/")

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from S3: %w", err)
	}
	return nil
}
