package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// confChatInsight is deliberately lower than the data-derived confidences:
// conversational mentions are weaker evidence than stored analyses.
const confChatInsight = 0.60

// recentMessageLimit caps how many assistant messages are scanned.
const recentMessageLimit = 10

// insightCategory groups keywords that signal one theme in assistant replies.
type insightCategory struct {
	name     string
	keywords []string
	recType  models.RecommendationType
	title    string
}

// insightCategories is evaluated in fixed order so output is deterministic.
var insightCategories = []insightCategory{
	{
		name:     "growth",
		keywords: []string{"increase", "expand", "grow"},
		recType:  models.RecommendationTypeBusiness,
		title:    "Growth Opportunity From Recent Discussions",
	},
	{
		name:     "profit",
		keywords: []string{"profit", "revenue"},
		recType:  models.RecommendationTypeBusiness,
		title:    "Profitability Focus From Recent Discussions",
	},
	{
		name:     "cost",
		keywords: []string{"cost", "expense", "save"},
		recType:  models.RecommendationTypeResource,
		title:    "Cost Management Insight",
	},
	{
		name:     "risk",
		keywords: []string{"risk"},
		recType:  models.RecommendationTypeBusiness,
		title:    "Risk Consideration",
	},
	{
		name:     "market",
		keywords: []string{"market", "demand", "customer"},
		recType:  models.RecommendationTypeMarket,
		title:    "Market Signal From Recent Discussions",
	},
	{
		name:     "seasonal",
		keywords: []string{"season", "weather", "climate"},
		recType:  models.RecommendationTypeMarket,
		title:    "Seasonal Consideration",
	},
	{
		name:     "resource",
		keywords: []string{"resource", "water", "soil", "fertilizer", "pest", "equipment"},
		recType:  models.RecommendationTypeResource,
		title:    "Resource Management Insight",
	},
}

// ChatExtractor mines assistant replies for recurring advisory themes. Chat
// candidates have no single source record, so their ids carry the clock's
// timestamp instead of a record id; the clock is injectable for tests.
type ChatExtractor struct {
	now func() time.Time
}

// NewChatExtractor creates a ChatExtractor using the wall clock.
func NewChatExtractor() *ChatExtractor {
	return NewChatExtractorWithClock(time.Now)
}

// NewChatExtractorWithClock creates a ChatExtractor with an injected clock.
func NewChatExtractorWithClock(now func() time.Time) *ChatExtractor {
	return &ChatExtractor{now: now}
}

// Extract scans the 10 most recent assistant messages. Every matched keyword
// contributes the first sentence containing it to that category's bucket; a
// sentence may land in several categories when several keywords match. Each
// non-empty category then yields exactly one candidate built from its first
// collected sentence.
func (e *ChatExtractor) Extract(messages []*models.ChatMessage) []*models.RecommendationCandidate {
	var assistant []*models.ChatMessage
	for _, msg := range messages {
		if msg.Role == models.MessageRoleAssistant {
			assistant = append(assistant, msg)
		}
	}

	sort.SliceStable(assistant, func(i, j int) bool {
		return assistant[i].CreatedAt.After(assistant[j].CreatedAt)
	})
	if len(assistant) > recentMessageLimit {
		assistant = assistant[:recentMessageLimit]
	}

	buckets := make(map[string][]string, len(insightCategories))
	for _, msg := range assistant {
		lower := strings.ToLower(msg.Content)
		for _, cat := range insightCategories {
			for _, keyword := range cat.keywords {
				if !strings.Contains(lower, keyword) {
					continue
				}
				if sentence := firstSentenceContaining(msg.Content, keyword); sentence != "" {
					buckets[cat.name] = append(buckets[cat.name], sentence)
				}
				break
			}
		}
	}

	now := e.now()
	var candidates []*models.RecommendationCandidate
	for _, cat := range insightCategories {
		sentences := buckets[cat.name]
		if len(sentences) == 0 {
			continue
		}
		candidates = append(candidates, &models.RecommendationCandidate{
			ID:          fmt.Sprintf("chat-%s-%d", cat.name, now.Unix()),
			Type:        cat.recType,
			Title:       cat.title,
			Description: sentences[0],
			Confidence:  confChatInsight,
			Data: map[string]interface{}{
				"category":      cat.name,
				"mention_count": len(sentences),
			},
			Source:    models.RecommendationSourceChat,
			CreatedAt: now,
		})
	}
	return candidates
}

// firstSentenceContaining splits content into sentences on '.', '!' and '?'
// and returns the first one containing the keyword, matched
// case-insensitively. Returns "" when no sentence matches.
func firstSentenceContaining(content, keyword string) string {
	sentences := strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	for _, sentence := range sentences {
		if strings.Contains(strings.ToLower(sentence), keyword) {
			return strings.TrimSpace(sentence)
		}
	}
	return ""
}
