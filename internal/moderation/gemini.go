package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anonto42/moments/backend/internal/models"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultVisionModel = "gemini-2.5-flash"
)

// contentGenerator is the subset of *genai.Models the gate calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGate implements Gate on the Gemini API.
type GeminiGate struct {
	models      contentGenerator
	textModel   string
	visionModel string
	logger      *zap.Logger
}

var _ Gate = (*GeminiGate)(nil)

// NewGeminiGate creates a gate backed by a genai client.
func NewGeminiGate(ctx context.Context, apiKey, textModel, visionModel string, logger *zap.Logger) (*GeminiGate, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiGate(client.Models, textModel, visionModel, logger), nil
}

func newGeminiGate(gen contentGenerator, textModel, visionModel string, logger *zap.Logger) *GeminiGate {
	if textModel == "" {
		textModel = DefaultTextModel
	}
	if visionModel == "" {
		visionModel = DefaultVisionModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiGate{models: gen, textModel: textModel, visionModel: visionModel, logger: logger}
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sentiment": {
			Type: genai.TypeString,
			Enum: []string{
				string(models.SentimentPositive),
				string(models.SentimentNeutral),
				string(models.SentimentNegative),
				string(models.SentimentToxic),
			},
		},
		"isSafe":       {Type: genai.TypeBoolean},
		"qualityScore": {Type: genai.TypeInteger},
		"reasoning":    {Type: genai.TypeString},
	},
	Required: []string{"sentiment", "isSafe", "qualityScore", "reasoning"},
}

func analysisPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following social media post content for safety, sentiment, and quality.

Content: %q

Rules:
1. Identify if the content is Toxic, Spam, or Harmful (isSafe: false).
2. Determine Sentiment (POSITIVE, NEUTRAL, NEGATIVE, TOXIC).
3. Assign a Quality Score (0-100).
   - High score (80-100): Constructive, helpful, insightful, original.
   - Mid score (40-79): Casual conversation, neutral updates.
   - Low score (0-39): Low effort, spammy, repetitive, complaining without substance.
   - Toxic/Hate speech gets 0.

Return valid JSON matching the schema.`, text)
}

func (g *GeminiGate) Analyze(ctx context.Context, text string) Analysis {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema,
	}
	resp, err := g.models.GenerateContent(ctx, g.textModel, genai.Text(analysisPrompt(text)), config)
	if err != nil {
		g.logger.Warn("content analysis failed, using permissive default", zap.Error(err))
		return FallbackAnalysis("Error analyzing content.")
	}
	a, err := parseAnalysis(responseText(resp))
	if err != nil {
		g.logger.Warn("content analysis unparsable, using permissive default", zap.Error(err))
		return FallbackAnalysis("Error analyzing content.")
	}
	return a
}

func parseAnalysis(raw string) (Analysis, error) {
	var a Analysis
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &a); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	if a.QualityScore < 0 {
		a.QualityScore = 0
	}
	if a.QualityScore > 100 {
		a.QualityScore = 100
	}
	if !a.Sentiment.Valid() {
		a.Sentiment = models.SentimentNeutral
	}
	return a, nil
}

func (g *GeminiGate) Transcribe(ctx context.Context, audio []byte, mimeType string) Generated {
	contents := inlineContents(audio, mimeType, "Transcribe the following audio accurately. Return only the transcription text.")
	resp, err := g.models.GenerateContent(ctx, g.textModel, contents, nil)
	if err != nil {
		g.logger.Warn("transcription failed", zap.Error(err))
		return Generated{Text: fallbackTranscription, Fallback: true}
	}
	return Generated{Text: responseText(resp)}
}

func (g *GeminiGate) DescribeImage(ctx context.Context, image []byte, mimeType string) Generated {
	contents := inlineContents(image, mimeType, "Describe this image in detail for a social media post caption. Be creative but accurate.")
	resp, err := g.models.GenerateContent(ctx, g.visionModel, contents, nil)
	if err != nil {
		g.logger.Warn("image description failed", zap.Error(err))
		return Generated{Text: fallbackImageDescription, Fallback: true}
	}
	return Generated{Text: responseText(resp)}
}

func (g *GeminiGate) SearchPlaces(ctx context.Context, query, near string) Generated {
	if near == "" {
		near = "Unknown"
	}
	prompt := fmt.Sprintf("User Query: %s. Current Location Context: %s. Provide a helpful summary including addresses or key details.", query, near)
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
	resp, err := g.models.GenerateContent(ctx, g.textModel, genai.Text(prompt), config)
	if err != nil {
		g.logger.Warn("place search failed", zap.Error(err))
		return Generated{Text: fallbackPlaces, Fallback: true}
	}
	return Generated{Text: responseText(resp), Sources: groundingSources(resp)}
}

func inlineContents(data []byte, mimeType, instruction string) []*genai.Content {
	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(instruction),
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func groundingSources(resp *genai.GenerateContentResponse) []Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var sources []Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = "Link"
		}
		sources = append(sources, Source{Title: title, Link: chunk.Web.URI})
	}
	return sources
}

func cleanJSON(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
