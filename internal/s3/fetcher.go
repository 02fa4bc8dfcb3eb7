package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"
)

type Option func(*Fetcher)

func WithRegion(region string) Option {
	return func(f *Fetcher) {
		f.Region = region
	}
}

func WithEndpoint(endpoint string) Option {
	return func(f *Fetcher) {
		f.Endpoint = endpoint
	}
}

func WithForcePathStyle(forcePathStyle bool) Option {
	return func(f *Fetcher) {
		f.ForcePathStyle = forcePathStyle
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// Fetcher pulls inventory documents out of S3, for exports that land in a
// bucket instead of on local disk. Credentials come from the default chain.
type Fetcher struct {
	logger *zap.Logger
	svc    *s3.S3

	Endpoint       string
	Region         string
	ForcePathStyle bool
}

func New(opts ...Option) (*Fetcher, error) {
	f := Fetcher{
		logger: zap.NewNop(),
	}

	for _, o := range opts {
		o(&f)
	}

	awsConfig := &aws.Config{
		Region:           aws.String(f.Region),
		S3ForcePathStyle: aws.Bool(f.ForcePathStyle),
	}

	if f.Endpoint != "" {
		awsConfig.Endpoint = aws.String(f.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}
	f.svc = s3.New(sess)

	return &f, nil
}

// Fetch opens the object named by an s3://bucket/key URL. The caller owns
// the returned body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	bucket, key, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("fetching inventory object",
		zap.String("bucket", bucket),
		zap.String("key", key),
	)

	out, err := f.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: get %s: %w", rawURL, err)
	}
	return out.Body, nil
}

// ParseURL splits an s3://bucket/key URL into bucket and key.
func ParseURL(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("s3: invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("s3: not an s3 url: %q", rawURL)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3: url %q must name a bucket and a key", rawURL)
	}
	return u.Host, key, nil
}
