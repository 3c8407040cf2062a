package glacier

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	gl "github.com/aws/aws-sdk-go-v2/service/glacier"
	gltypes "github.com/aws/aws-sdk-go-v2/service/glacier/types"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newGlacierClientFromConfig = func(cfg aws.Config, optFns ...func(*gl.Options)) API {
		return gl.NewFromConfig(cfg, optFns...)
	}
)

// API is the subset of the Glacier client used by AWSService.
type API interface {
	UploadArchive(ctx context.Context, in *gl.UploadArchiveInput, optFns ...func(*gl.Options)) (*gl.UploadArchiveOutput, error)
	DeleteArchive(ctx context.Context, in *gl.DeleteArchiveInput, optFns ...func(*gl.Options)) (*gl.DeleteArchiveOutput, error)
	InitiateJob(ctx context.Context, in *gl.InitiateJobInput, optFns ...func(*gl.Options)) (*gl.InitiateJobOutput, error)
	DescribeJob(ctx context.Context, in *gl.DescribeJobInput, optFns ...func(*gl.Options)) (*gl.DescribeJobOutput, error)
	GetJobOutput(ctx context.Context, in *gl.GetJobOutputInput, optFns ...func(*gl.Options)) (*gl.GetJobOutputOutput, error)
}

// AWSConfig selects the region, endpoint and credentials of the Glacier
// client. Empty credentials fall back to the default AWS credential chain.
type AWSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// AWSService implements Service on top of the Glacier API.
type AWSService struct {
	api       API
	accountID string
}

// NewAWSService wraps an existing Glacier API client.
func NewAWSService(api API) *AWSService {
	return &AWSService{api: api, accountID: common.AccountIDSelf}
}

// NewAWSServiceFromConfig builds a Glacier client from c. No request is sent.
func NewAWSServiceFromConfig(ctx context.Context, c AWSConfig) (*AWSService, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	api := newGlacierClientFromConfig(cfg, func(o *gl.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	})
	return NewAWSService(api), nil
}

// UploadArchive sends body as a single archive. The client computes the
// tree hash and content hash headers from the seekable body.
func (s *AWSService) UploadArchive(ctx context.Context, vault, description string, body io.ReadSeeker) (UploadResult, error) {
	out, err := s.api.UploadArchive(ctx, &gl.UploadArchiveInput{
		AccountId:          aws.String(s.accountID),
		VaultName:          aws.String(vault),
		ArchiveDescription: aws.String(description),
		Body:               body,
	})
	if err != nil {
		return UploadResult{}, Classify(err)
	}
	return UploadResult{
		ArchiveID: aws.ToString(out.ArchiveId),
		Checksum:  aws.ToString(out.Checksum),
		Location:  aws.ToString(out.Location),
	}, nil
}

func (s *AWSService) DeleteArchive(ctx context.Context, vault, archiveID string) error {
	_, err := s.api.DeleteArchive(ctx, &gl.DeleteArchiveInput{
		AccountId: aws.String(s.accountID),
		VaultName: aws.String(vault),
		ArchiveId: aws.String(archiveID),
	})
	return Classify(err)
}

func (s *AWSService) InitiateInventoryJob(ctx context.Context, vault string) (InventoryJob, error) {
	out, err := s.api.InitiateJob(ctx, &gl.InitiateJobInput{
		AccountId: aws.String(s.accountID),
		VaultName: aws.String(vault),
		JobParameters: &gltypes.JobParameters{
			Type: aws.String(receipts.JobTypeInventory),
		},
	})
	if err != nil {
		return InventoryJob{}, Classify(err)
	}
	return InventoryJob{
		JobID:    aws.ToString(out.JobId),
		Location: aws.ToString(out.Location),
	}, nil
}

func (s *AWSService) DescribeJob(ctx context.Context, vault, jobID string) (JobStatus, error) {
	out, err := s.api.DescribeJob(ctx, &gl.DescribeJobInput{
		AccountId: aws.String(s.accountID),
		VaultName: aws.String(vault),
		JobId:     aws.String(jobID),
	})
	if err != nil {
		return JobStatus{}, Classify(err)
	}
	return JobStatus{
		Completed:  out.Completed,
		StatusCode: string(out.StatusCode),
	}, nil
}

func (s *AWSService) GetJobOutput(ctx context.Context, vault, jobID string) (JobOutput, error) {
	out, err := s.api.GetJobOutput(ctx, &gl.GetJobOutputInput{
		AccountId: aws.String(s.accountID),
		VaultName: aws.String(vault),
		JobId:     aws.String(jobID),
	})
	if err != nil {
		return JobOutput{}, Classify(err)
	}
	return JobOutput{
		Status: int(out.Status),
		Body:   out.Body,
	}, nil
}
