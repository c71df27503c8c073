package mediasvc

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core"
)

const cacheControl = "public, max-age=31536000, immutable"

// putObjectAPI is the part of the s3 client the store needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Store struct {
	client  putObjectAPI
	bucket  string
	baseURL string
}

var _ core.ImageStore = (*s3Store)(nil)

// NewS3Store uploads images to an S3 compatible bucket (AWS, MinIO, Spaces...).
// A custom endpoint switches to path-style addressing.
func NewS3Store(ctx context.Context, conf *core.Config) (core.ImageStore, error) {
	mc := conf.Media
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(mc.Region)}
	if mc.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(mc.AccessKey, mc.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if mc.Endpoint != "" {
			o.BaseEndpoint = aws.String(mc.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, mc), nil
}

func newS3Store(client putObjectAPI, mc core.MediaConfig) *s3Store {
	baseURL := strings.TrimRight(mc.PublicBaseURL, "/")
	if baseURL == "" {
		if mc.Endpoint != "" {
			baseURL = strings.TrimRight(mc.Endpoint, "/") + "/" + mc.Bucket
		} else {
			baseURL = "https://" + mc.Bucket + ".s3." + mc.Region + ".amazonaws.com"
		}
	}
	return &s3Store{client: client, bucket: mc.Bucket, baseURL: baseURL}
}

func (st *s3Store) Put(ctx context.Context, img core.Image) (string, error) {
	_, err := st.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(st.bucket),
		Key:           aws.String(img.Key),
		Body:          bytes.NewReader(img.Data),
		ContentLength: aws.Int64(int64(len(img.Data))),
		ContentType:   aws.String(img.ContentType),
		CacheControl:  aws.String(cacheControl),
	})
	if err != nil {
		return "", errors.Wrap(err, "uploading "+img.Key)
	}
	return st.baseURL + "/" + img.Key, nil
}
