package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/garciabuilder/profilesync/internal/snapshot"
	"github.com/garciabuilder/profilesync/internal/timex"
)

// S3Settings holds the object storage connection details for progress
// photo uploads.
type S3Settings struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// Uploader hands out presigned PUT URLs for progress photos. The client
// uploads directly; only the storage key enters the snapshot.
type Uploader struct {
	settings S3Settings
}

func NewUploader(settings S3Settings) *Uploader {
	return &Uploader{settings: settings}
}

func photoStorageKey(userID string) string {
	return fmt.Sprintf("photos/%s/%s/%v", userID, timex.Today(), uuid.New())
}

func (u *Uploader) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(u.settings.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.settings.AccessKey,
			u.settings.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if u.settings.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(u.settings.BaseEndpoint)
		}
	})

	return s3.NewPresignClient(client), nil
}

// PresignPhotoUpload returns the progress photo entry to merge into the
// body-metrics section plus a presigned PUT URL valid for 15 minutes.
func (u *Uploader) PresignPhotoUpload(ctx context.Context, userID, note string) (snapshot.ProgressPhoto, string, error) {
	presignClient, err := u.presignClient(ctx)
	if err != nil {
		return snapshot.ProgressPhoto{}, "", err
	}

	bucket := u.settings.Bucket
	key := photoStorageKey(userID)

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return snapshot.ProgressPhoto{}, "", err
	}

	photo := snapshot.ProgressPhoto{
		Ref:  key,
		Date: timex.Today(),
		Note: note,
	}
	return photo, req.URL, nil
}
