package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// maxQuestionLen bounds how much of a visitor message is forwarded.
const maxQuestionLen = 500

// Poster sends questions the assistant could not answer to a Slack channel.
type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostUnanswered posts a visitor question that only got the fallback reply.
// Returns the message timestamp (ts).
func (p *Poster) PostUnanswered(ctx context.Context, question, cacheKey string) (string, error) {
	text := formatUnanswered(question, cacheKey)

	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
			{
				"type": "context",
				"elements": []map[string]any{
					{
						"type": "mrkdwn",
						"text": "Consider adding a canned answer or updating the profile facts.",
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}

	p.logger.Info("posted unanswered question to slack", "ts", slackResp.TS, "key", cacheKey)
	return slackResp.TS, nil
}

func formatUnanswered(question, cacheKey string) string {
	q := strings.TrimSpace(question)
	if r := []rune(q); len(r) > maxQuestionLen {
		q = string(r[:maxQuestionLen]) + "…"
	}

	var sb strings.Builder
	sb.WriteString("*Unanswered portfolio question*\n")
	fmt.Fprintf(&sb, "> %s\n", strings.ReplaceAll(q, "\n", "\n> "))
	fmt.Fprintf(&sb, "_cache key:_ `%s`", cacheKey)
	return sb.String()
}
