package vault

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"daybook/internal/config"
)

// S3Vault stores snapshots as objects under <prefix>/snapshots/<name> in an
// S3 bucket. Uploads go through the transfer manager so large snapshots are
// sent multipart without buffering them whole.
type S3Vault struct {
	name   string
	bucket string
	prefix string
	client *s3.Client
}

// NewS3Vault creates an S3 vault from configuration. When static
// credentials are present in the config they are used directly; otherwise
// the SDK's default provider chain applies.
func NewS3Vault(cfg config.VaultConfig) (*S3Vault, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &S3Vault{
		name:   cfg.Name,
		bucket: cfg.S3Bucket,
		prefix: strings.TrimSuffix(cfg.S3Prefix, "/"),
		client: s3.NewFromConfig(awsCfg),
	}, nil
}

// PutSnapshot uploads a snapshot under the given name.
func (v *S3Vault) PutSnapshot(name string, r io.Reader, size int64) error {
	if err := validName(name); err != nil {
		return err
	}

	uploader := manager.NewUploader(v.client)
	_, err := uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(v.bucket),
		Key:           aws.String(v.key(name)),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("uploading snapshot: %w", err)
	}
	return nil
}

// GetSnapshot downloads a snapshot by name and writes it to w.
func (v *S3Vault) GetSnapshot(name string, w io.Writer) error {
	if err := validName(name); err != nil {
		return err
	}

	out, err := v.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.key(name)),
	})
	if err != nil {
		return fmt.Errorf("downloading snapshot %s: %w", name, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading snapshot body: %w", err)
	}
	return nil
}

// ListSnapshots returns stored snapshot names, sorted ascending.
func (v *S3Vault) ListSnapshots() ([]string, error) {
	keyPrefix := v.key("")

	var names []string
	paginator := s3.NewListObjectsV2Paginator(v.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(v.bucket),
		Prefix: aws.String(keyPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("listing snapshots: %w", err)
		}
		for _, obj := range page.Contents {
			names = append(names, strings.TrimPrefix(aws.ToString(obj.Key), keyPrefix))
		}
	}
	sort.Strings(names)
	return names, nil
}

// ValidateSetup verifies that the bucket is reachable.
func (v *S3Vault) ValidateSetup() error {
	_, err := v.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(v.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 bucket not accessible: %w", err)
	}
	return nil
}

func (v *S3Vault) key(name string) string {
	if v.prefix == "" {
		return "snapshots/" + name
	}
	return v.prefix + "/snapshots/" + name
}

// Compile-time check that S3Vault implements the Vault interface
var _ Vault = (*S3Vault)(nil)
