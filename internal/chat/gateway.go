package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adacosta/portfolio-chat/internal/gemini"
	"github.com/adacosta/portfolio-chat/internal/profile"
)

// ErrGatewayDisabled is returned when no provider credential was configured.
var ErrGatewayDisabled = errors.New("llm gateway disabled")

// Generation parameters sent with every provider call.
const (
	temperature     = 0.7
	maxOutputTokens = 500
)

type Gateway interface {
	Enabled() bool
	Generate(ctx context.Context, message string) Result
}

// ContentGenerator is satisfied by *gemini.Client.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, cfg gemini.GenerationConfig) (string, error)
}

// GeminiGateway prefixes every message with the profile facts and
// instructions and asks the provider for a single reply. It never retries.
type GeminiGateway struct {
	client  ContentGenerator
	timeout time.Duration
}

// NewGeminiGateway returns a gateway that reports itself disabled when client
// is nil. A zero timeout leaves the call bounded only by ctx.
func NewGeminiGateway(client ContentGenerator, timeout time.Duration) *GeminiGateway {
	return &GeminiGateway{client: client, timeout: timeout}
}

func (g *GeminiGateway) Enabled() bool {
	return g != nil && g.client != nil
}

func (g *GeminiGateway) Generate(ctx context.Context, message string) Result {
	if !g.Enabled() {
		return Failed(ErrGatewayDisabled)
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.client.GenerateContent(ctx, BuildPrompt(message), gemini.GenerationConfig{
		Temperature:     temperature,
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return Failed(fmt.Errorf("generate reply: %w", err))
	}
	return Ok(text)
}

// BuildPrompt lays out the resume block, the assistant instructions and the
// visitor's message in the order the model expects.
func BuildPrompt(message string) string {
	return profile.ResumeContext + "\n\n" + profile.Instructions + "\n\nUser: " + message + "\n\nAssistant:"
}
