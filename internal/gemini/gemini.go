package gemini

import (
	"context"
	"fmt"

	"example/imagebatch/internal/model"

	"google.golang.org/genai"
)

// SetupClient builds a Gemini API client from an API key, or a Vertex AI
// client when no key is given.
func SetupClient(ctx context.Context, apiKey, project, location string) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if apiKey == "" {
		cc = &genai.ClientConfig{
			Project:  project,
			Location: location,
			Backend:  genai.BackendVertexAI,
		}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

func GetConfig(temperature float64, candidates int, aspectRatio, imageSize string) model.GenerationConfig {
	return model.GenerationConfig{
		Temperature:    temperature,
		CandidateCount: candidates,
		ImageConfig: model.ImageConfig{
			AspectRatio: aspectRatio,
			ImageSize:   imageSize,
		},
	}
}

func GetPrompt() string {
	return "Perform a deep color-correction on this underwater image. " +
		"Apply aggressive color recovery to restore the warm reddish and orange spectrums lost to water depth, " +
		"specifically neutralizing the dominant cyan/green cast. " +
		"The seabed (only where present) must be corrected to a natural, earthy brown 'dirt' color. " +
		"Remove all volumetric haze to make the water appear crystal-clear, " +
		"but strictly maintain the original background scenery and environment. " +
		"Do not alter, add, or remove any objects or structural elements in the foreground or background. " +
		"Ensure 1:1 compositional integrity while sharpening details and removing low-light noise. " +
		"The result should look like a professional photograph captured with high-powered red-spectrum strobe lighting."
}
