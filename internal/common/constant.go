package common

// Defaults shared by configuration and the AWS service.
const (
	DefaultReceiptsFile = "glacier_receipts.json"
	DefaultVault        = "corbuntu_archive"
	DefaultRegion       = "us-east-1"

	// AccountIDSelf tells Glacier to use the account owning the credentials.
	AccountIDSelf = "-"

	// JobOutputPrefix is prepended to the first 8 characters of a job id to
	// name the file that receives the job output.
	JobOutputPrefix = "job_output."
)
