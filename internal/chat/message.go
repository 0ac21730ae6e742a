package chat

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Source records which subsystem produced a bot reply.
type Source string

const (
	SourceCache     Source = "cache"
	SourceRuleBased Source = "rule-based"
	SourceGemini    Source = "gemini"
	SourceFallback  Source = "fallback"
)

type Message struct {
	ID     int64  `json:"id"`
	Role   Role   `json:"role"`
	Text   string `json:"text"`
	Source Source `json:"source,omitempty"`
}

// UnmarshalJSON accepts any JSON value. Elements that are not objects, and
// fields of the wrong type, decode to zero values for Sanitize to fill in.
func (m *Message) UnmarshalJSON(data []byte) error {
	*m = Message{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}
	m.ID = looseID(fields["id"])
	m.Role = Role(looseString(fields["role"]))
	m.Text = looseString(fields["text"])
	m.Source = Source(looseString(fields["source"]))
	return nil
}

// looseID reads a number or a numeric string. Anything else is 0.
func looseID(raw json.RawMessage) int64 {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int64(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return int64(f)
		}
	}
	return 0
}

// looseString reads a string, or the literal text of a number or boolean.
func looseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strings.TrimSpace(string(raw))
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// Sanitize fills the fields a stored message must carry. Messages without an
// id get the current Unix time in milliseconds plus their position, so ids
// stay unique within one save. A missing role becomes user.
func Sanitize(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	now := time.Now().UnixMilli()
	for i, m := range msgs {
		if m.ID == 0 {
			m.ID = now + int64(i)
		}
		if m.Role == "" {
			m.Role = RoleUser
		}
		out[i] = m
	}
	return out
}
