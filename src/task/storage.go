package task

import (
	"bytes"
	"fmt"
	"mime"
	"os"
	"path"
	"strings"

	Aws "github.com/aws/aws-sdk-go/aws"

	"github.com/seventv/RainbowProcessor/src/aws"
	"github.com/seventv/RainbowProcessor/src/global"
	"github.com/seventv/RainbowProcessor/src/utils"
)

const (
	OutputSuffix = ".rainbow.gif"

	s3Scheme = "s3://"
)

var (
	ErrS3Unavailable = fmt.Errorf("s3 is not configured")
	ErrBadS3URI      = fmt.Errorf("bad s3 uri")
)

// OutputPath is where the animation for the input at p is written.
func OutputPath(p string) string {
	return p + OutputSuffix
}

func IsS3(p string) bool {
	return strings.HasPrefix(p, s3Scheme)
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(uri string) (bucket string, key string, err error) {
	if !IsS3(uri) {
		return "", "", fmt.Errorf("%w: %s", ErrBadS3URI, uri)
	}

	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, s3Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s", ErrBadS3URI, uri)
	}

	return bucket, key, nil
}

// Read loads the input at p from the local filesystem or s3.
func Read(ctx global.Context, p string) ([]byte, error) {
	if !IsS3(p) {
		return os.ReadFile(p)
	}

	bucket, key, err := ParseS3URI(p)
	if err != nil {
		return nil, err
	}

	s3 := ctx.Instances().AwsS3
	if s3 == nil {
		return nil, ErrS3Unavailable
	}

	buf := Aws.NewWriteAtBuffer([]byte{})
	if err := s3.DownloadFile(ctx, bucket, key, buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Write stores data at p on the local filesystem or s3.
func Write(ctx global.Context, p string, data []byte) error {
	if !IsS3(p) {
		return os.WriteFile(p, data, 0644)
	}

	bucket, key, err := ParseS3URI(p)
	if err != nil {
		return err
	}

	s3 := ctx.Instances().AwsS3
	if s3 == nil {
		return ErrS3Unavailable
	}

	return s3.UploadFile(
		ctx,
		bucket,
		key,
		bytes.NewReader(data),
		utils.StringPointer(mime.TypeByExtension(path.Ext(key))),
		nil,
		aws.DefaultCacheControl,
	)
}
