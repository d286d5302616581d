package etl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectUploader - часть manager.Uploader, используемая пайплайном
type ObjectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Uploader загружает выходной файл в S3-совместимое хранилище
type Uploader struct {
	client ObjectUploader
	config UploadConfig
}

// NewUploader создает загрузчик. Без явных ключей используется стандартная
// цепочка AWS (переменные окружения, профиль, роль).
func NewUploader(ctx context.Context, cfg UploadConfig) (*Uploader, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewUploaderWithClient(manager.NewUploader(client), cfg), nil
}

// NewUploaderWithClient создает загрузчик с готовым клиентом
func NewUploaderWithClient(client ObjectUploader, cfg UploadConfig) *Uploader {
	return &Uploader{client: client, config: cfg}
}

// UploadFile загружает файл и возвращает его адрес
func (u *Uploader) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	key := u.objectKey(path)
	out, err := u.client.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.config.Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", u.config.Bucket, key, err)
	}

	if out != nil && out.Location != "" {
		return out.Location, nil
	}
	return fmt.Sprintf("s3://%s/%s", u.config.Bucket, key), nil
}

// objectKey - ключ объекта; пустой Key или Key на "/" дополняется именем файла
func (u *Uploader) objectKey(path string) string {
	key := u.config.Key
	if key == "" || key[len(key)-1] == '/' {
		key += filepath.Base(path)
	}
	return key
}
