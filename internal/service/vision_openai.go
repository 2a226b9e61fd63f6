package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/strauser85/snap-sold-sub001/internal/config"
	"github.com/strauser85/snap-sold-sub001/internal/model"
	"github.com/strauser85/snap-sold-sub001/internal/utils"
)

// GenerateSchema reflects a strict JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var visionResultSchema = GenerateSchema[model.VisionResult]()

// OpenAIVisionClient classifies listing photos with an OpenAI-compatible vision model
type OpenAIVisionClient struct {
	client openai.Client
	model  string
	detail string
}

// NewOpenAIVisionClient creates a vision client from configuration
func NewOpenAIVisionClient(cfg *config.OpenAIConfig) *OpenAIVisionClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.APIBase != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIBase))
	}

	detail := cfg.Detail
	if detail == "" {
		detail = "low"
	}

	return &OpenAIVisionClient{
		client: openai.NewClient(opts...),
		model:  cfg.VisionModel,
		detail: detail,
	}
}

// ClassifyImage asks the model which room the photo shows
func (c *OpenAIVisionClient) ClassifyImage(ctx context.Context, imageURL string) (*model.VisionResult, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "room_classification",
		Description: openai.String("Room category and features of a real estate listing photo"),
		Schema:      visionResultSchema,
		Strict:      openai.Bool(true),
	}

	chatCompletion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(buildVisionPrompt()),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL:    imageURL,
					Detail: c.detail,
				}),
			}),
		},
		Model: openai.ChatModel(c.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(chatCompletion.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	rawResponse := chatCompletion.Choices[0].Message.Content
	if rawResponse == "" {
		return nil, fmt.Errorf("OpenAI returned empty response. Finish reason: %s", chatCompletion.Choices[0].FinishReason)
	}

	var result model.VisionResult
	if err := utils.ParseAIJSON(rawResponse, &result); err != nil {
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}

	return &result, nil
}

func buildVisionPrompt() string {
	names := make([]string, len(model.AllCategories))
	for i, c := range model.AllCategories {
		names[i] = string(c)
	}

	return fmt.Sprintf(`You are labelling photos for a real estate listing video.

Classify this photo into exactly one room_type from: %s.
- exterior_front is the street-facing view of the house
- exterior_back covers patios, decks and the rear of the house
- Use other for anything that fits none of the categories

Also list up to 5 short lowercase features visible in the photo, write one
sentence describing it for a buyer, and give your confidence between 0 and 1.

Respond in JSON format with this structure:
{
  "room_type": "kitchen",
  "features": ["granite counters", "island"],
  "description": "Bright kitchen with a large island.",
  "confidence": 0.9
}`, strings.Join(names, ", "))
}

var _ VisionClient = (*OpenAIVisionClient)(nil)
