package store

import (
	"fmt"
	"net/url"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	url       *url.URL
	awsConfig *aws.Config
	endpoint  string               // S3-compatible endpoint, with path-style addressing
	anonymous bool                 // use anonymous credentials for S3
	key       string               // static S3 access key
	secret    string               // static S3 secret key
	provider  trace.TracerProvider // when set, S3 API calls produce child spans
}

type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func apply(url *url.URL, opts ...Opt) (*opt, error) {
	// Apply options
	o := opt{url: url}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	// Return success
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithEndpoint sets the endpoint for S3-compatible services.
func WithEndpoint(endpoint string) Opt {
	return func(o *opt) error {
		if endpoint, err := url.Parse(endpoint); err != nil {
			return err
		} else if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
			return fmt.Errorf("endpoint must be http:// or https://, got %s://", endpoint.Scheme)
		} else {
			o.endpoint = endpoint.String()
		}
		return nil
	}
}

// WithAnonymous forces use of anonymous credentials for S3.
func WithAnonymous() Opt {
	return func(o *opt) error {
		o.anonymous = true
		return nil
	}
}

// WithCredentials sets a static access key and secret for S3.
func WithCredentials(key, secret string) Opt {
	return func(o *opt) error {
		if key == "" || secret == "" {
			return fmt.Errorf("access key and secret are both required")
		}
		o.key, o.secret = key, secret
		return nil
	}
}

// WithCreateDir sets create_dir=true for file:// URLs to create the directory if it doesn't exist
func WithCreateDir() Opt {
	return func(o *opt) error {
		o.set("create_dir", "true")
		return nil
	}
}

// WithTracerProvider injects AWS SDK middleware so each S3 API call
// produces a span.
func WithTracerProvider(provider trace.TracerProvider) Opt {
	return func(o *opt) error {
		o.provider = provider
		return nil
	}
}

// WithAWSConfig provides an AWS SDK v2 Config directly. Region and
// credentials from the config take precedence over other options.
func WithAWSConfig(cfg aws.Config) Opt {
	return func(o *opt) error {
		o.awsConfig = &cfg
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (o *opt) set(key, value string) {
	if o.url == nil {
		return
	}
	q := o.url.Query()
	if value == "" {
		q.Del(key)
	} else {
		q.Set(key, value)
	}
	o.url.RawQuery = q.Encode()
}
