// File: services/intelligence/speech.go
package ai

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

// AudioClip is mono or stereo 16-bit linear PCM.
type AudioClip struct {
	Data       []byte
	SampleRate int
	Channels   int
	Language   string
}

// Transcriber turns a voice note into text.
type Transcriber interface {
	Transcribe(ctx context.Context, clip AudioClip) (string, error)
}

type GoogleTranscriber struct {
	client *speech.Client
}

func NewGoogleTranscriber(ctx context.Context, credentialsFile string) (*GoogleTranscriber, error) {
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	return &GoogleTranscriber{client: client}, nil
}

func (g *GoogleTranscriber) Close() error { return g.client.Close() }

func (g *GoogleTranscriber) Transcribe(ctx context.Context, clip AudioClip) (string, error) {
	lang := clip.Language
	if lang == "" {
		lang = "en-US"
	}
	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   int32(clip.SampleRate),
			LanguageCode:      lang,
			AudioChannelCount: int32(clip.Channels),
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: clip.Data},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		// best alternative only
		if len(result.Alternatives) > 0 {
			transcript.WriteString(result.Alternatives[0].Transcript + " ")
		}
	}
	return strings.TrimSpace(transcript.String()), nil
}
