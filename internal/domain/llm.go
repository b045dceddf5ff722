package domain

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrCompletionFailed means the language model could not be reached or
	// returned an unusable response.
	ErrCompletionFailed = errors.New("completion failed")

	// ErrNoRecommendations means a completion was produced but no record in
	// it could be parsed.
	ErrNoRecommendations = errors.New("no recommendations found")
)

// stopSequences end every completion at the next instruction block.
var stopSequences = []string{"[INST]", "</s>"}

// CompletionRequest is a prompt plus sampling parameters for one blocking
// text completion.
type CompletionRequest struct {
	Prompt        string
	MaxTokens     int
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
	Stop          []string
}

// Completer produces text for a prompt.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Sampling is a named set of sampling parameters.
type Sampling struct {
	MaxTokens     int
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
}

// Sampling presets for the three prompts the advisor sends.
var (
	RecommendationSampling = Sampling{MaxTokens: 2048, Temperature: 0.9, TopP: 0.9, RepeatPenalty: 1.2}
	PriceSampling          = Sampling{MaxTokens: 20, Temperature: 0.9, TopP: 0.1, RepeatPenalty: 1.2}
	YieldPriceSampling     = Sampling{MaxTokens: 20, Temperature: 0.7, TopP: 0.9, RepeatPenalty: 1.2}
)

// Request builds a CompletionRequest for prompt using s.
func (s Sampling) Request(prompt string) CompletionRequest {
	return CompletionRequest{
		Prompt:        prompt,
		MaxTokens:     s.MaxTokens,
		Temperature:   s.Temperature,
		TopP:          s.TopP,
		RepeatPenalty: s.RepeatPenalty,
		Stop:          slices.Clone(stopSequences),
	}
}
