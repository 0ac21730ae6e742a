package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/adacosta/portfolio-chat/internal/cache"
	"github.com/adacosta/portfolio-chat/internal/profile"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeGateway struct {
	mu      sync.Mutex
	enabled bool
	result  Result
	calls   []string
}

func (g *fakeGateway) Enabled() bool { return g.enabled }

func (g *fakeGateway) Generate(_ context.Context, message string) Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, message)
	return g.result
}

// brokenCache fails every operation.
type brokenCache struct{ sets int }

func (c *brokenCache) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("cache down")
}

func (c *brokenCache) Set(context.Context, string, string) error {
	c.sets++
	return errors.New("cache down")
}

func (c *brokenCache) FlushAll(context.Context) error { return errors.New("cache down") }

func (c *brokenCache) Stats(context.Context) (cache.Stats, error) {
	return cache.Stats{}, errors.New("cache down")
}

func newTestEngine(t *testing.T, gw Gateway) (*Engine, *cache.Memory) {
	t.Helper()
	mem := cache.NewMemory(time.Hour)
	t.Cleanup(func() { mem.Close() })
	return NewEngine(mem, gw, discardLogger()), mem
}

func greeting(t *testing.T) string {
	t.Helper()
	a, ok := profile.Answer(profile.TopicGreeting)
	if !ok {
		t.Fatal("greeting answer missing")
	}
	return a
}

func TestHandle_SimpleGreetingIsRuleBased(t *testing.T) {
	gw := &fakeGateway{enabled: true, result: Ok("from model")}
	e, _ := newTestEngine(t, gw)

	got := e.Handle(context.Background(), "hello")
	if got.Source != SourceRuleBased {
		t.Errorf("expected rule-based, got %q", got.Source)
	}
	if got.Reply != greeting(t) {
		t.Errorf("expected greeting text, got %q", got.Reply)
	}
	if len(gw.calls) != 0 {
		t.Errorf("expected no provider calls, got %d", len(gw.calls))
	}
}

func TestHandle_RepeatIsServedFromCache(t *testing.T) {
	e, _ := newTestEngine(t, &fakeGateway{})
	ctx := context.Background()

	first := e.Handle(ctx, "Hello There")
	second := e.Handle(ctx, "hello   there")

	if second.Source != SourceCache {
		t.Errorf("expected cache on repeat, got %q", second.Source)
	}
	if second.Reply != first.Reply {
		t.Errorf("expected identical reply, got %q vs %q", second.Reply, first.Reply)
	}
	if first.Key != second.Key {
		t.Errorf("expected shared key, got %q and %q", first.Key, second.Key)
	}
}

func TestHandle_ComplexQuestionGoesToProvider(t *testing.T) {
	gw := &fakeGateway{enabled: true, result: Ok("a considered answer")}
	e, mem := newTestEngine(t, gw)
	ctx := context.Background()

	msg := "Why are your skills good?"
	got := e.Handle(ctx, msg)
	if got.Source != SourceGemini {
		t.Errorf("expected gemini, got %q", got.Source)
	}
	if got.Reply != "a considered answer" {
		t.Errorf("unexpected reply %q", got.Reply)
	}
	if len(gw.calls) != 1 || gw.calls[0] != msg {
		t.Errorf("expected one provider call with the raw message, got %v", gw.calls)
	}
	if v, ok, _ := mem.Get(ctx, cache.Key(msg)); !ok || v != "a considered answer" {
		t.Errorf("expected provider reply cached, got %q ok=%v", v, ok)
	}
}

func TestHandle_ComplexQuestionWithoutProviderFallsBackToRule(t *testing.T) {
	gw := &fakeGateway{enabled: false}
	e, _ := newTestEngine(t, gw)

	got := e.Handle(context.Background(), "Why are your skills good?")
	if got.Source != SourceFallback {
		t.Errorf("expected fallback, got %q", got.Source)
	}
	skills, _ := profile.Answer(profile.TopicSkills)
	if got.Reply != skills {
		t.Errorf("expected skills answer as fallback, got %q", got.Reply)
	}
	if len(gw.calls) != 0 {
		t.Errorf("expected disabled gateway not to be called")
	}
}

func TestHandle_NoMatchNoProvider(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	got := e.Handle(context.Background(), "asdkjfh platypus")
	if got.Source != SourceFallback {
		t.Errorf("expected fallback, got %q", got.Source)
	}
	if got.Reply != profile.Fallback {
		t.Errorf("expected generic fallback, got %q", got.Reply)
	}
}

func TestHandle_ProviderFailureDegrades(t *testing.T) {
	gw := &fakeGateway{enabled: true, result: Failed(errors.New("quota exceeded"))}
	e, _ := newTestEngine(t, gw)
	ctx := context.Background()

	got := e.Handle(ctx, "platypus quokka wombat dingo")
	if got.Source != SourceFallback || got.Reply != profile.Fallback {
		t.Errorf("expected generic fallback, got %+v", got)
	}

	again := e.Handle(ctx, "platypus quokka wombat dingo")
	if again.Source != SourceCache || again.Reply != profile.Fallback {
		t.Errorf("expected cached fallback, got %+v", again)
	}
	if len(gw.calls) != 1 {
		t.Errorf("expected a single provider call, got %d", len(gw.calls))
	}
}

func TestHandle_CacheShortCircuitsComplexity(t *testing.T) {
	gw := &fakeGateway{enabled: true, result: Ok("model")}
	e, mem := newTestEngine(t, gw)
	ctx := context.Background()

	msg := "Why are your skills good?"
	_ = mem.Set(ctx, cache.Key(msg), "stale canned answer")

	got := e.Handle(ctx, msg)
	if got.Source != SourceCache || got.Reply != "stale canned answer" {
		t.Errorf("expected cached reply, got %+v", got)
	}
	if len(gw.calls) != 0 {
		t.Errorf("expected provider to be skipped on cache hit")
	}
}

func TestHandle_CacheErrorsAreNotFatal(t *testing.T) {
	bc := &brokenCache{}
	e := NewEngine(bc, nil, discardLogger())

	got := e.Handle(context.Background(), "hello")
	if got.Source != SourceRuleBased {
		t.Errorf("expected rule-based despite cache failure, got %q", got.Source)
	}
	if bc.sets != 1 {
		t.Errorf("expected one attempted cache write, got %d", bc.sets)
	}
}

func TestGatewayEnabled(t *testing.T) {
	if NewEngine(nil, nil, discardLogger()).GatewayEnabled() {
		t.Error("expected nil gateway to be disabled")
	}
	if NewEngine(nil, &fakeGateway{enabled: false}, discardLogger()).GatewayEnabled() {
		t.Error("expected disabled gateway to report disabled")
	}
	if !NewEngine(nil, &fakeGateway{enabled: true}, discardLogger()).GatewayEnabled() {
		t.Error("expected enabled gateway to report enabled")
	}
}
