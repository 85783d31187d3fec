package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportsvc/internal/config"
	"reportsvc/internal/port"
)

type fakeUploader struct {
	got  *s3.PutObjectInput
	body []byte
	out  *manager.UploadOutput
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.got = input
	if input.Body != nil {
		f.body, _ = io.ReadAll(input.Body)
	}
	return f.out, f.err
}

func TestS3Client_Upload(t *testing.T) {
	fake := &fakeUploader{out: &manager.UploadOutput{
		Location: "https://reports.s3.amazonaws.com/partner-reports/p/2024-05-01_2024-05-31.pdf",
		ETag:     aws.String(`"abc123"`),
	}}
	client := &s3Client{uploader: fake}

	out, err := client.Upload(context.Background(), port.UploadInput{
		Bucket:      "reports",
		Key:         "partner-reports/p/2024-05-01_2024-05-31.pdf",
		Body:        bytes.NewReader([]byte("%PDF-1.3")),
		ContentType: "application/pdf",
		Size:        8,
	})

	require.NoError(t, err)
	assert.Equal(t, `"abc123"`, out.ETag)
	assert.Equal(t, fake.out.Location, out.Location)
	assert.Equal(t, "reports", aws.ToString(fake.got.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(fake.got.ContentType))
	assert.Equal(t, int64(8), aws.ToInt64(fake.got.ContentLength))
	assert.Equal(t, `attachment; filename="2024-05-01_2024-05-31.pdf"`, aws.ToString(fake.got.ContentDisposition))
	assert.Equal(t, []byte("%PDF-1.3"), fake.body)
}

func TestS3Client_Upload_NoETag(t *testing.T) {
	client := &s3Client{uploader: &fakeUploader{out: &manager.UploadOutput{Location: "loc"}}}

	out, err := client.Upload(context.Background(), port.UploadInput{Bucket: "b", Key: "k.csv", Body: bytes.NewReader(nil)})

	require.NoError(t, err)
	assert.Empty(t, out.ETag)
}

func TestS3Client_Upload_Error(t *testing.T) {
	client := &s3Client{uploader: &fakeUploader{err: errors.New("AccessDenied")}}

	out, err := client.Upload(context.Background(), port.UploadInput{Bucket: "b", Key: "k"})

	assert.Nil(t, out)
	assert.ErrorContains(t, err, "s3 upload")
}

func TestNewS3Client_CustomEndpoint(t *testing.T) {
	storage, err := NewS3Client(&config.S3Config{
		Region:    "us-east-1",
		Bucket:    "reports",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})

	require.NoError(t, err)
	assert.NotNil(t, storage)
}
