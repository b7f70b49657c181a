package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestPutAvatar(t *testing.T) {
	fake := &fakeS3{}
	store := &S3AvatarStore{client: fake, bucket: "chirp-media", region: "us-east-2"}

	url, err := store.PutAvatar(context.Background(), "Me.PNG", []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	key := aws.ToString(fake.input.Key)
	assert.True(t, strings.HasPrefix(key, "avatars/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "chirp-media", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(fake.input.ContentLength))
	assert.Equal(t, []byte("png-bytes"), fake.body)
	assert.Equal(t, "https://chirp-media.s3.us-east-2.amazonaws.com/"+key, url)
}

func TestPutAvatar_UploadError(t *testing.T) {
	store := &S3AvatarStore{client: &fakeS3{err: errors.New("access denied")}, bucket: "b", region: "r"}

	_, err := store.PutAvatar(context.Background(), "a.jpg", []byte("x"), "image/jpeg")
	assert.ErrorContains(t, err, "access denied")
}
