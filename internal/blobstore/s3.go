package blobstore

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var _ Store = (*s3Store)(nil)

// s3Store lets an operator point the data file at an S3 bucket instead of
// local disk, so /persist round-trips through S3. Every key it addresses
// is the single snapshot filename configured in [Files] (or the filename
// a /persist call names), never an arbitrary path, so an empty key is
// rejected up front rather than sent to AWS only to fail remotely.
type s3Store struct {
	profile string
	region  string
	bucket  string
	client  *s3.S3
}

func newS3Store(cfg S3Config) Store {
	return &s3Store{
		profile: cfg.Profile,
		region:  cfg.Region,
		bucket:  cfg.Bucket,
	}
}

func validateSnapshotKey(key Key) error {
	if key == "" {
		return fmt.Errorf("%w: snapshot key is empty", ErrNotFound)
	}
	return nil
}

func (s *s3Store) Get(key Key) (contents Value, err error) {
	if err := validateSnapshotKey(key); err != nil {
		return nil, err
	}
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	output, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(key)),
	})
	if err != nil {
		if rfErr, ok := err.(awserr.RequestFailure); ok {
			if rfErr.StatusCode() == http.StatusNotFound {
				return nil, errors.Wrapf(ErrNotFound, "key=%q err=%+v", key, err)
			}
		}
		return nil, err
	}
	defer func() {
		if cerr := output.Body.Close(); cerr != nil {
			log.WithFields(log.Fields{"op": "get", "key": key}).Warning("could not close response body")
		}
	}()
	return io.ReadAll(output.Body)
}

func (s *s3Store) Put(key Key, value Value) (err error) {
	if err = validateSnapshotKey(key); err != nil {
		return err
	}
	if err = s.ensureClient(); err != nil {
		return err
	}
	_, err = s.client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(key)),
		Body:   bytes.NewReader(value),
	})
	return err
}

func (s *s3Store) Delete(key Key) error {
	if err := validateSnapshotKey(key); err != nil {
		return err
	}
	if err := s.ensureClient(); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(key)),
	})
	return err
}

func (s *s3Store) ensureClient() error {
	if s.client != nil {
		return nil
	}
	if s.bucket == "" {
		return fmt.Errorf("%w: s3 storage selected but no bucket configured", ErrNotImplemented)
	}
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(s.region),
		Credentials: credentials.NewSharedCredentials("", s.profile),
	})
	if err != nil {
		return err
	}
	s.client = s3.New(sess)
	return nil
}
