// Package rules classifies visitor messages with fixed keyword tables.
package rules

import (
	"strings"

	"github.com/adacosta/portfolio-chat/internal/profile"
)

// TopicRule maps a keyword group to a topic. A message matches when its
// lowercased text contains any of the keywords as a substring.
type TopicRule struct {
	Topic    profile.Topic
	Keywords []string
}

// TopicRules is evaluated in order; the first matching rule wins.
var TopicRules = []TopicRule{
	{Topic: profile.TopicGreeting, Keywords: []string{"hello", "hi", "hey"}},
	{Topic: profile.TopicSkills, Keywords: []string{"skill", "technology", "tech", "programming"}},
	{Topic: profile.TopicExperience, Keywords: []string{"experience", "work", "job", "career"}},
	{Topic: profile.TopicProjects, Keywords: []string{"project", "build", "create", "portfolio"}},
	{Topic: profile.TopicEducation, Keywords: []string{"education", "degree", "school", "university"}},
	{Topic: profile.TopicContact, Keywords: []string{"contact", "reach", "email", "linkedin"}},
	{Topic: profile.TopicCertifications, Keywords: []string{"certification", "aws", "itil"}},
	{Topic: profile.TopicAI, Keywords: []string{"ai", "artificial intelligence", "model evaluation"}},
}

// Match is the result of running the topic table against a message.
type Match struct {
	Topic  profile.Topic
	Answer string
}

// MatchTopic returns the canned answer of the first rule the message hits.
// ok is false when no rule matches.
func MatchTopic(message string) (m Match, ok bool) {
	lower := strings.ToLower(message)
	for _, rule := range TopicRules {
		if !containsAny(lower, rule.Keywords) {
			continue
		}
		answer, found := profile.Answer(rule.Topic)
		if !found {
			continue
		}
		return Match{Topic: rule.Topic, Answer: answer}, true
	}
	return Match{}, false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
