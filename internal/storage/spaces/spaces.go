package spaces

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage"
)

const keyPrefix = "uploads"

// Provider implements an S3 compatible (digitalocean spaces) upload storage
type Provider struct {
	spaces *s3.S3
	space  string
}

// New returns a new Provider instance, failing if the space can't be reached
func New(ctx context.Context, space, endpoint, accessKey, secretKey string, forcePathStyle bool) (*Provider, error) {
	spacesSession, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String("us-east-1"), // Needs to be us-east-1 for Spaces, or it'll fail
		S3ForcePathStyle: aws.Bool(forcePathStyle),
	})
	if err != nil {
		return nil, err
	}

	spaces := s3.New(spacesSession)

	_, err = spaces.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(space),
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		spaces: spaces,
		space:  space,
	}, nil
}

// Put uploads an image, replacing any existing upload with the same key
func (p *Provider) Put(ctx context.Context, key string, data []byte) error {
	name, err := storage.Key(key)
	if err != nil {
		return err
	}

	_, err = p.spaces.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.space),
		Key:    aws.String(path.Join(keyPrefix, name)),
		Body:   bytes.NewReader(data),
		ACL:    aws.String(s3.ObjectCannedACLPrivate),
	})

	return err
}

// Get returns the data of an upload
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	name, err := storage.Key(key)
	if err != nil {
		return nil, err
	}

	output, err := p.spaces.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.space),
		Key:    aws.String(path.Join(keyPrefix, name)),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}
	defer output.Body.Close()

	buf := new(bytes.Buffer)
	_, err = io.Copy(buf, output.Body)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
