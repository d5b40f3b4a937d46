package s3

import (
	"context"
	"strings"
	"time"

	"booking-service/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const uploadExpiry = 15 * time.Minute

type FilePresigner struct {
	presignClient *s3.PresignClient
	endpoint      string
	bucketName    string
}

func NewFilePresigner(ctx context.Context, cfg config.S3Config) (*FilePresigner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(strings.TrimRight(cfg.Endpoint, "/"))
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &FilePresigner{
		presignClient: s3.NewPresignClient(s3Client),
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		bucketName:    cfg.BucketName,
	}, nil
}

func (p *FilePresigner) PresignUpload(ctx context.Context, objectKey string) (string, error) {
	request, err := p.presignClient.PresignPutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket: aws.String(p.bucketName),
			Key:    aws.String(objectKey),
		},
		func(opts *s3.PresignOptions) {
			opts.Expires = uploadExpiry
		},
	)
	if err != nil {
		return "", err
	}

	return request.URL, nil
}

// PublicURL is where the object is readable once the upload completes.
func (p *FilePresigner) PublicURL(objectKey string) string {
	return p.endpoint + "/" + p.bucketName + "/" + objectKey
}
