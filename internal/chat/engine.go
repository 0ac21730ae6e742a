package chat

import (
	"context"
	"log/slog"

	"github.com/adacosta/portfolio-chat/internal/cache"
	"github.com/adacosta/portfolio-chat/internal/profile"
	"github.com/adacosta/portfolio-chat/internal/rules"
)

// Reply is what the chat endpoint returns for one visitor message.
type Reply struct {
	Reply  string `json:"reply"`
	Source Source `json:"source"`
	// Key is the normalized cache key the reply is stored under.
	Key string `json:"-"`
}

// Engine decides how each message is answered: cached reply, canned topic
// answer, provider reply or fallback, in that order.
type Engine struct {
	cache   cache.Cache
	gateway Gateway
	logger  *slog.Logger
}

func NewEngine(c cache.Cache, gw Gateway, logger *slog.Logger) *Engine {
	return &Engine{cache: c, gateway: gw, logger: logger}
}

// GatewayEnabled reports whether provider calls will be attempted.
func (e *Engine) GatewayEnabled() bool {
	return e.gateway != nil && e.gateway.Enabled()
}

// Handle never fails. Cache and provider errors are logged and the message
// falls through to the next step.
func (e *Engine) Handle(ctx context.Context, message string) Reply {
	key := cache.Key(message)

	// A cached reply wins even if the message would now be classified
	// differently.
	cached, hit, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("cache lookup failed", "key", key, "error", err)
	}
	if hit {
		return e.reply(cached, SourceCache, key)
	}

	match, matched := rules.MatchTopic(message)
	if matched && !rules.IsComplex(message) {
		e.remember(ctx, key, match.Answer)
		return e.reply(match.Answer, SourceRuleBased, key)
	}

	if e.GatewayEnabled() {
		res := e.gateway.Generate(ctx, message)
		if text, ok := res.Text(); ok {
			e.remember(ctx, key, text)
			return e.reply(text, SourceGemini, key)
		}
		e.logger.Warn("provider call failed, falling back", "key", key, "error", res.Err())
	}

	fallback := profile.Fallback
	if matched {
		fallback = match.Answer
	}
	e.remember(ctx, key, fallback)
	return e.reply(fallback, SourceFallback, key)
}

func (e *Engine) remember(ctx context.Context, key, reply string) {
	if err := e.cache.Set(ctx, key, reply); err != nil {
		e.logger.Warn("cache store failed", "key", key, "error", err)
	}
}

func (e *Engine) reply(text string, src Source, key string) Reply {
	e.logger.Info("chat reply", "source", src, "key", key)
	return Reply{Reply: text, Source: src, Key: key}
}
