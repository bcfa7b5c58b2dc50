// Package s3 persists the whole course model as a single JSON object in an
// S3-compatible bucket. It works against AWS as well as MinIO and other
// compatible services.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/coursemate/coursemate/pkg/core"
)

const (
	// DefaultDataKey is the object key holding every course.
	DefaultDataKey = "coursemate.json"
	// DefaultScratchKey is the free-text object next to the data object.
	DefaultScratchKey = "scratchpad.txt"

	requestTimeout = 10 * time.Second
)

// Config holds the configuration for the S3-backed store.
type Config struct {
	Bucket       string
	Region       string
	Endpoint     string // optional, for MinIO and other S3-compatible services
	AccessKey    string // optional, falls back to the default credential chain
	SecretKey    string
	UsePathStyle bool
	DataKey      string // defaults to DefaultDataKey
	ScratchKey   string // defaults to DefaultScratchKey
	ReadOnly     bool
	Logger       *slog.Logger
}

// Store implements core.Store on a bucket.
type Store struct {
	client *awss3.Client
	config Config
	log    *slog.Logger
}

// NewStore builds an S3 client from the configuration and returns a store
// bound to the configured bucket.
func NewStore(ctx context.Context, config Config) (*Store, error) {
	if config.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if config.DataKey == "" {
		config.DataKey = DefaultDataKey
	}
	if config.ScratchKey == "" {
		config.ScratchKey = DefaultScratchKey
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, "")))
	}
	if config.Endpoint != "" {
		if _, err := url.Parse(config.Endpoint); err != nil {
			return nil, fmt.Errorf("invalid s3 endpoint: %w", err)
		}
		endpoint := config.Endpoint
		region := config.Region
		opts = append(opts, awsconfig.WithEndpointResolver(
			aws.EndpointResolverFunc(func(service, _ string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint, SigningRegion: region}, nil
			}),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = config.UsePathStyle
	})

	return &Store{
		client: client,
		config: config,
		log:    log,
	}, nil
}

// Initialize verifies the bucket exists and is reachable.
func (s *Store) Initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: &s.config.Bucket,
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("bucket %s does not exist", s.config.Bucket)
		}
		return fmt.Errorf("error checking bucket: %w", err)
	}
	return nil
}

// Load reads the whole model from the data object. A missing object yields
// an empty model; a malformed one becomes *core.ParseError.
func (s *Store) Load(ctx context.Context) (*core.Model, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: &s.config.Bucket,
		Key:    aws.String(s.config.DataKey),
	})
	if err != nil {
		if isNotFound(err) {
			s.log.Debug("data object missing, starting empty", "key", s.objectURL(s.config.DataKey))
			return core.NewModel(), nil
		}
		return nil, fmt.Errorf("error loading model from s3: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading model data: %w", err)
	}

	var courses []core.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, &core.ParseError{Path: s.objectURL(s.config.DataKey), Err: err}
	}

	model := &core.Model{Courses: courses}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	s.log.Debug("loaded model", "key", s.objectURL(s.config.DataKey), "courses", len(model.Courses))
	return model, nil
}

// Save writes the whole model to the data object. The object replaces in
// one PutObject, so readers never see a partial document.
func (s *Store) Save(ctx context.Context, model *core.Model) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	courses := model.Courses
	if courses == nil {
		courses = []core.Course{}
	}
	data, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding model json: %w", err)
	}
	data = append(data, '\n')

	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      &s.config.Bucket,
		Key:         aws.String(s.config.DataKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("error saving model to s3: %w", err)
	}

	s.log.Debug("saved model", "key", s.objectURL(s.config.DataKey), "courses", len(courses))
	return nil
}

// Scratchpad reads the sidecar object. A missing object is an empty pad.
func (s *Store) Scratchpad(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: &s.config.Bucket,
		Key:    aws.String(s.config.ScratchKey),
	})
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("error loading scratchpad from s3: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading scratchpad data: %w", err)
	}
	return string(data), nil
}

// SaveScratchpad replaces the sidecar object.
func (s *Store) SaveScratchpad(ctx context.Context, text string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      &s.config.Bucket,
		Key:         aws.String(s.config.ScratchKey),
		Body:        bytes.NewReader([]byte(text)),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("error saving scratchpad to s3: %w", err)
	}
	return nil
}

func (s *Store) objectURL(key string) string {
	return "s3://" + s.config.Bucket + "/" + key
}

// isNotFound reports whether the error is the API telling us the object or
// bucket does not exist.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) &&
		(apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound")
}
