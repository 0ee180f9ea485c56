package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"newsai/config"
)

// S3Config contains the settings for the image mirror. Values fall back to
// the standard AWS config/credential chain.
type S3Config struct {
	Bucket string
	Region string
	// Profile selects a named shared config/credentials profile.
	Profile string
	// UsePathStyle forces path-style addressing (S3-compatible providers).
	UsePathStyle bool
	// PublicBaseURL, when set, is the CDN/site base the hosted URL is
	// built from instead of the bucket's virtual-host address.
	PublicBaseURL string
}

// S3Store mirrors source images into an S3 bucket under a fixed folder and
// hands back publicly servable URLs. Keys are derived from the source
// filename and existing objects are never overwritten, so re-crawling the
// same article is idempotent.
type S3Store struct {
	client *s3.Client
	cfg    S3Config
	http   *http.Client
}

// NewS3Store creates the mirror using the default AWS configuration chain
// with optional overrides from cfg.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("media: bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3Store{
		client: client,
		cfg:    cfg,
		http:   &http.Client{Timeout: config.UploadTimeout},
	}, nil
}

// Upload downloads the source image and stores it under the media folder,
// returning the hosted URL. An object that already exists is reused as-is.
func (s *S3Store) Upload(ctx context.Context, imageURL string) (string, error) {
	key, err := ObjectKey(imageURL)
	if err != nil {
		return "", err
	}

	exists, err := s.exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		return s.hostedURL(key), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", config.UserAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if err := s.put(ctx, key, resp.Body, contentType); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	return s.hostedURL(key), nil
}

func (s *S3Store) put(ctx context.Context, key string, body io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.Bucket),
		Key:          aws.String(key),
		Body:         body,
		CacheControl: aws.String("public, max-age=31536000"),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	_, err := s.client.PutObject(ctx, in)
	return err
}

// exists returns true if the object exists; a 404/NotFound is not an error.
func (s *S3Store) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}

	return false, err
}

func (s *S3Store) hostedURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	if s.cfg.Region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.Bucket, key)
}

// ObjectKey derives the bucket key from the source image URL: the media
// folder plus the URL's filename. A URL without a usable filename is
// rejected rather than guessed at.
func ObjectKey(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("invalid image url %q: %w", imageURL, err)
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("image url %q has no filename", imageURL)
	}
	return config.MediaFolder + "/" + name, nil
}
