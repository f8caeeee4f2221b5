package validator

import (
	"context"
)

type Validator interface {
	// Validate checks every entry of the metadata file at filePath.
	// Input:
	// - filePath: the metadata file written by generate
	// - workerCount: the number of validators to run
	Validate(ctx context.Context, filePath string, workerCount int) error
}
