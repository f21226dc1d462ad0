package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/dverbovy/tabstock/internal/server/config"
)

// PresignService hands out presigned PUT URLs for item reference images so
// devices upload directly to object storage instead of proxying bytes
// through the API.
type PresignService struct {
	config *sc.Config
}

func NewPresignService(config *sc.Config) *PresignService {
	return &PresignService{config: config}
}

// imageStorageKey shards keys by date, with the item id for traceability.
func imageStorageKey(itemID string) string {
	d := time.Now()
	return fmt.Sprintf("items/%d/%d/%d/%s-%v", d.Year(), d.Month(), d.Day(), itemID, uuid.New())
}

func (s *PresignService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return s3.NewPresignClient(client), nil
}

// GetPresignedPutURL returns the storage key and a PUT URL valid for 15
// minutes.
func (s *PresignService) GetPresignedPutURL(ctx context.Context, itemID string) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := imageStorageKey(itemID)

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}
