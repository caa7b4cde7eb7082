// File: services/intelligence/local.go
package ai

import (
	"context"
	"regexp"
	"strings"

	"jobbot/models"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?[0-9][0-9 ()\-]{6,}[0-9]`)
)

// first matching keyword wins
var jobKeywords = []struct{ keyword, jobType string }{
	{"photo", "Photography"},
	{"video", "Videography"},
	{"film", "Videography"},
	{"audio", "Audio"},
	{"sound", "Audio"},
	{"music", "Audio"},
}

// LocalExtractor runs without a language model. It reads the answer to the
// question the current state asks and picks contact details out of any
// message. Replies are left empty so the dialogue supplies its own prompt.
type LocalExtractor struct{}

func NewLocalExtractor() *LocalExtractor { return &LocalExtractor{} }

func (*LocalExtractor) Extract(_ context.Context, req models.ExtractionRequest) (*models.ExtractionResult, error) {
	text := strings.TrimSpace(req.Text)
	fields := map[string]string{}

	if email := emailPattern.FindString(text); email != "" {
		fields[models.FieldEmail] = email
	}
	if phone := phonePattern.FindString(emailPattern.ReplaceAllString(text, "")); phone != "" {
		fields[models.FieldPhone] = strings.TrimSpace(phone)
	}

	switch req.State {
	case models.StateCollectingJobType:
		fields[models.FieldJobType] = jobTypeOf(text)
	case models.StateCollectingDuration:
		fields[models.FieldDuration] = text
	case models.StateCollectingLocation:
		fields[models.FieldLocation] = text
	case models.StateCollectingBudget:
		fields[models.FieldBudget] = text
	case models.StateCollectingContact:
		fields[models.FieldContactName] = text
	}
	return &models.ExtractionResult{Fields: fields}, nil
}

func jobTypeOf(text string) string {
	lower := strings.ToLower(text)
	for _, k := range jobKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.jobType
		}
	}
	return text
}
