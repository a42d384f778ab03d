package aws

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/sirupsen/logrus"

	"github.com/seventv/RainbowProcessor/src/configure"
	"github.com/seventv/RainbowProcessor/src/global"
	"github.com/seventv/RainbowProcessor/src/utils"
)

var DefaultCacheControl = utils.StringPointer("public, max-age=15552000")

type S3Instance struct {
	session *session.Session
}

func NewS3(ctx global.Context) global.AwsS3 {
	sess, err := session.NewSession(sessionConfig(ctx.Config()))
	if err != nil {
		logrus.Fatal("failed to create aws session: ", err)
	}

	return &S3Instance{
		session: sess,
	}
}

func sessionConfig(cfg *configure.Config) *aws.Config {
	c := &aws.Config{
		Region: aws.String(cfg.Aws.Region),
	}

	if cfg.Aws.AccessToken != "" {
		c.Credentials = credentials.NewStaticCredentials(cfg.Aws.AccessToken, cfg.Aws.SecretKey, "")
	}

	// s3 compatible stores such as minio
	if cfg.Aws.Endpoint != "" {
		c.Endpoint = aws.String(cfg.Aws.Endpoint)
		c.S3ForcePathStyle = aws.Bool(true)
	}

	return c
}

func (a *S3Instance) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType, acl, cacheControl *string) error {
	_, err := s3manager.NewUploader(a.session).UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(key),
		Body:         data,
		ContentType:  contentType,
		ACL:          acl,
		CacheControl: cacheControl,
	})

	return err
}

func (a *S3Instance) DownloadFile(ctx context.Context, bucket, key string, file io.WriterAt) error {
	_, err := s3manager.NewDownloader(a.session).DownloadWithContext(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})

	return err
}
