package artificial

import (
	"context"
	"regexp"
	"strings"

	"grokcord/sources/features"
	"grokcord/sources/metrics"
	"grokcord/sources/tracing"

	"github.com/sashabaranov/go-openai"
)

var imageGenerationPattern = regexp.MustCompile(`(?i)^(generate|create|draw)\s+.*\b(image|picture|art)\b`)

// IsImageGenerationRequest reports whether text asks for a picture, e.g. "draw me an image of a cat".
func IsImageGenerationRequest(text string) bool {
	return imageGenerationPattern.MatchString(strings.TrimSpace(text))
}

// Imager generates pictures through the xAI images endpoint.
type Imager struct {
	ai       *openai.Client
	config   *AIConfig
	features *features.FeatureManager
	metrics  *metrics.MetricsService
}

func NewImager(ai *openai.Client, config *AIConfig, features *features.FeatureManager, metrics *metrics.MetricsService) *Imager {
	return &Imager{ai: ai, config: config, features: features, metrics: metrics}
}

func (x *Imager) Enabled() bool {
	if x == nil || x.ai == nil || !x.config.ImagesEnabled {
		return false
	}
	return x.features.IsEnabledDefault(features.FeatureImageGeneration, true)
}

// Imagine returns the URL of a generated picture.
func (x *Imager) Imagine(ctx context.Context, log *tracing.Logger, prompt string) (string, error) {
	if !x.Enabled() {
		return "", ErrImagesDisabled
	}

	log = log.With(tracing.AiKind, "xai/imager", tracing.AiModel, x.config.ImagesModel)
	log.I("image requested")

	response, err := x.ai.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          x.config.ImagesModel,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		log.E("Failed to generate image", tracing.InnerError, err)
		x.metrics.RecordImageGenerated("error")
		return "", openAIError(ProviderXAI, err)
	}

	if len(response.Data) == 0 || response.Data[0].URL == "" {
		x.metrics.RecordImageGenerated("empty")
		return "", ErrEmptyCompletion
	}

	x.metrics.RecordImageGenerated("ok")
	log.I("image generated")

	return response.Data[0].URL, nil
}
