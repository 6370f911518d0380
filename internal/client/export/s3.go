package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/sanguischat/internal/client/models"
)

// S3Config locates the bucket transcripts are uploaded to.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig
	newS3Client          = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Exporter struct {
	bucket string
	client objectPutter
	now    func() time.Time
}

func NewS3Exporter(ctx context.Context, c S3Config) (*S3Exporter, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}
	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3Client(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Exporter{bucket: c.Bucket, client: client, now: time.Now}, nil
}

// ObjectKey places a transcript under a date prefix.
func ObjectKey(t time.Time, conversationID string) string {
	return fmt.Sprintf("transcripts/%04d/%02d/%02d/%s-%s.txt",
		t.Year(), int(t.Month()), t.Day(), safeName(conversationID), uuid.New())
}

// Export uploads the transcript and returns its object key.
func (e *S3Exporter) Export(ctx context.Context, conv *models.Conversation) (string, error) {
	var buf bytes.Buffer
	if err := WriteTranscript(&buf, conv); err != nil {
		return "", err
	}

	key := ObjectKey(e.now().UTC(), conv.ID)
	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}
