package rules

import (
	"strings"
	"unicode/utf8"
)

// SimplePatterns mark questions a canned answer handles well.
var SimplePatterns = []string{
	"hello", "hi", "hey", "skills", "experience", "projects", "education",
	"contact", "certifications", "ai", "what can you do", "help",
}

// ComplexPatterns mark questions that ask for reasoning or opinion.
var ComplexPatterns = []string{
	"how", "why", "explain", "compare", "difference", "recommend", "suggest",
	"opinion", "think", "advice", "tips", "best", "worst", "challenge",
	"problem", "solution", "approach", "methodology", "strategy",
}

// simpleLengthLimit is the length above which a message with no simple
// pattern is treated as complex.
const simpleLengthLimit = 20

// IsComplex reports whether a message should go to the model even when a
// topic rule matched it.
func IsComplex(message string) bool {
	lower := strings.ToLower(message)
	if containsAny(lower, ComplexPatterns) {
		return true
	}
	return !containsAny(lower, SimplePatterns) && utf8.RuneCountInString(message) > simpleLengthLimit
}
