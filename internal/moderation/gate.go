// Package moderation is the boundary to the external content classifier and
// generator. Every call degrades to a permissive default instead of failing.
package moderation

import (
	"context"

	"github.com/anonto42/moments/backend/internal/models"
)

// Analysis is the verdict on a piece of user-submitted text.
type Analysis struct {
	IsSafe       bool             `json:"isSafe"`
	QualityScore int              `json:"qualityScore"`
	Sentiment    models.Sentiment `json:"sentiment"`
	Reasoning    string           `json:"reasoning"`
	// Fallback is set when the verdict is the permissive default rather
	// than a classifier result.
	Fallback bool `json:"-"`
}

// Source is a reference returned with a grounded answer.
type Source struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Generated is free text produced by the gate.
type Generated struct {
	Text     string   `json:"text"`
	Sources  []Source `json:"sources,omitempty"`
	Fallback bool     `json:"fallback,omitempty"`
}

// Gate classifies and generates content. Implementations never return an
// error; failures yield the fallback values below.
type Gate interface {
	Analyze(ctx context.Context, text string) Analysis
	Transcribe(ctx context.Context, audio []byte, mimeType string) Generated
	DescribeImage(ctx context.Context, image []byte, mimeType string) Generated
	SearchPlaces(ctx context.Context, query, near string) Generated
}

const (
	fallbackQuality          = 50
	fallbackTranscription    = "Simulated Transcription: This is a test."
	fallbackImageDescription = "Simulated Image Description: A beautiful scene."
	fallbackPlaces           = "Simulated Map Result: New York City."
)

// FallbackAnalysis is the permissive verdict used whenever the classifier is
// unavailable.
func FallbackAnalysis(reason string) Analysis {
	return Analysis{
		IsSafe:       true,
		QualityScore: fallbackQuality,
		Sentiment:    models.SentimentNeutral,
		Reasoning:    reason,
		Fallback:     true,
	}
}

// Offline is the Gate used when no credentials are configured.
type Offline struct{}

var _ Gate = Offline{}

func (Offline) Analyze(context.Context, string) Analysis {
	return FallbackAnalysis("API key missing, default safe.")
}

func (Offline) Transcribe(context.Context, []byte, string) Generated {
	return Generated{Text: fallbackTranscription, Fallback: true}
}

func (Offline) DescribeImage(context.Context, []byte, string) Generated {
	return Generated{Text: fallbackImageDescription, Fallback: true}
}

func (Offline) SearchPlaces(context.Context, string, string) Generated {
	return Generated{Text: fallbackPlaces, Fallback: true}
}
