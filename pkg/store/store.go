package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	config "github.com/aws/aws-sdk-go-v2/config"
	credentials "github.com/aws/aws-sdk-go-v2/credentials"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	flow "github.com/mutablelogic/go-flow"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
	otelaws "go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	blob "gocloud.dev/blob"
	s3blob "gocloud.dev/blob/s3blob"
	gcerrors "gocloud.dev/gcerrors"

	// Drivers
	_ "gocloud.dev/blob/fileblob" // file:// URLs
	_ "gocloud.dev/blob/memblob"  // mem:// URLs
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type blobstore struct {
	*opt
	bucket *blob.Bucket
	prefix string // key prefix for bucket operations (empty for file://)
}

var _ flow.Store = (*blobstore)(nil)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	runsPrefix = "runs"
	runsExt    = ".json"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewBlobStore creates a run store using Go CDK. The URL host is the store
// name and must be an identifier. Examples:
//   - "mem://runs"
//   - "file://runs/path/to/directory"
//   - "s3://my-bucket/prefix?region=us-east-1"
func NewBlobStore(ctx context.Context, u string, opts ...Opt) (*blobstore, error) {
	self := new(blobstore)

	// Set the options
	if url, err := url.Parse(u); err != nil {
		return nil, err
	} else if opt, err := apply(url, opts...); err != nil {
		return nil, err
	} else {
		self.opt = opt
	}

	// Validate the store name
	if !types.IsIdentifier(self.url.Host) {
		return nil, fmt.Errorf("store name %q must be a valid identifier (letter, digits, underscores, hyphens; max 64 chars)", self.url.Host)
	}

	// For file:// the path is the root directory; otherwise it is a key prefix
	if self.url.Scheme != "file" {
		self.prefix = strings.Trim(self.url.Path, "/")
	}

	// Open the bucket
	var bucket *blob.Bucket
	var err error
	switch self.url.Scheme {
	case "s3":
		bucket, err = self.openS3(ctx)
	case "file":
		if self.url.Path == "" || self.url.Path == "/" {
			return nil, fmt.Errorf("file store %q requires a directory path", self.url.Host)
		}
		openURL := &url.URL{Scheme: "file", Path: self.url.Path, RawQuery: self.url.RawQuery}
		bucket, err = blob.OpenBucket(ctx, openURL.String())
	case "mem":
		bucket, err = blob.OpenBucket(ctx, "mem://")
	default:
		return nil, fmt.Errorf("unsupported store scheme %q", self.url.Scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}
	self.bucket = bucket

	return self, nil
}

// Close the store
func (s *blobstore) Close() error {
	var result error
	if s.bucket != nil {
		result = errors.Join(result, s.bucket.Close())
		s.bucket = nil
	}

	// Return any errors
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the name of the store (the host component of the URL)
func (s *blobstore) Name() string {
	return s.url.Host
}

// URL returns the store URL
func (s *blobstore) URL() *url.URL {
	u := *s.url
	return &u
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// openS3 builds an AWS configuration from the options and opens the bucket
// named by the URL host
func (s *blobstore) openS3(ctx context.Context) (*blob.Bucket, error) {
	var cfg aws.Config
	if s.awsConfig != nil {
		cfg = *s.awsConfig
	} else {
		cfgOpts := []func(*config.LoadOptions) error{}
		if region := s.url.Query().Get("region"); region != "" {
			cfgOpts = append(cfgOpts, config.WithRegion(region))
		}
		if s.anonymous {
			cfgOpts = append(cfgOpts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
		} else if s.key != "" {
			cfgOpts = append(cfgOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.key, s.secret, "")))
		}
		if loaded, err := config.LoadDefaultConfig(ctx, cfgOpts...); err != nil {
			return nil, err
		} else {
			cfg = loaded
		}
	}

	// Trace S3 API calls
	if s.provider != nil {
		otelaws.AppendMiddlewares(&cfg.APIOptions, otelaws.WithTracerProvider(s.provider))
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.endpoint != "" {
			o.BaseEndpoint = aws.String(s.endpoint)
			o.UsePathStyle = true
		}
	})
	return s3blob.OpenBucket(ctx, client, s.url.Host, nil)
}

// runKey returns the blob key for a run id
func (s *blobstore) runKey(id string) string {
	key := runsPrefix + "/" + id + runsExt
	if s.prefix != "" {
		return s.prefix + "/" + key
	}
	return key
}

// runsKeyPrefix returns the blob key prefix under which runs are stored
func (s *blobstore) runsKeyPrefix() string {
	if s.prefix != "" {
		return s.prefix + "/" + runsPrefix + "/"
	}
	return runsPrefix + "/"
}

// blobErr wraps a go-cloud blob error with the appropriate httpresponse error
func blobErr(err error, key string) error {
	if err == nil {
		return nil
	}
	switch gcerrors.Code(err) {
	case gcerrors.NotFound:
		return httpresponse.ErrNotFound.Withf("%q not found", key)
	case gcerrors.PermissionDenied:
		return httpresponse.ErrForbidden.Withf("permission denied for %q", key)
	case gcerrors.InvalidArgument:
		return httpresponse.ErrBadRequest.Withf("invalid argument for %q: %v", key, err)
	case gcerrors.FailedPrecondition, gcerrors.AlreadyExists:
		return httpresponse.ErrConflict.Withf("precondition failed for %q: %v", key, err)
	default:
		return httpresponse.ErrInternalError.Withf("blob operation failed: %v", err)
	}
}
