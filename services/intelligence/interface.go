// File: services/intelligence/interface.go
package ai

import (
	"context"

	"jobbot/models"
)

// RetryReply is shown when the language model could not be consulted.
const RetryReply = "Sorry, I'm having trouble processing your request. Please try again."

// Extractor turns a customer utterance into a reply plus booking fields.
type Extractor interface {
	Extract(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResult, error)
}
