// Package entity tags section content with a fixed keyword vocabulary.
//
// This is a deliberately cheap lexical heuristic, not NLP: terms match by
// substring containment on the lowercased content, so "user" also matches
// inside "username". False positives are accepted.
package entity

import (
	"strings"

	"github.com/prdpilot/prdpilot/internal/prd"
)

var actorTerms = []string{
	"user", "admin", "customer", "manager", "developer", "operator",
	"stakeholder", "reviewer", "owner", "guest", "member", "analyst",
	"moderator", "tester", "vendor",
}

var systemTerms = []string{
	"database", "api", "server", "frontend", "backend", "service",
	"queue", "cache", "gateway", "dashboard", "pipeline", "storage",
	"scheduler", "webhook", "cli", "sdk",
}

var featureTerms = []string{
	"login", "signup", "registration", "authentication", "search",
	"upload", "download", "export", "import", "notification", "report",
	"payment", "billing", "permission", "filter", "audit", "integration",
	"analytics", "sync", "onboarding",
}

// Extract matches the three vocabularies against content and returns the
// bucketed hits. Matches are unique and keep vocabulary order. Empty content
// yields empty buckets.
func Extract(content string) prd.Entities {
	if content == "" {
		return prd.Entities{}
	}
	lower := strings.ToLower(content)
	return prd.Entities{
		Actors:   matchTerms(lower, actorTerms),
		Systems:  matchTerms(lower, systemTerms),
		Features: matchTerms(lower, featureTerms),
	}
}

func matchTerms(lower string, vocab []string) []string {
	var out []string
	for _, term := range vocab {
		if strings.Contains(lower, term) {
			out = append(out, term)
		}
	}
	return out
}
