package scheduler

import (
	"context"
	"strings"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

// Analyzer scores an article's relevance (0..1) and market sentiment
type Analyzer interface {
	Analyze(ctx context.Context, title, summary string) (float64, models.Sentiment, error)
}

// relevanceTerms maps keywords to weights. Title hits count double.
var relevanceTerms = map[string]float64{
	"crude":     0.25,
	"oil":       0.15,
	"brent":     0.25,
	"wti":       0.25,
	"opec":      0.30,
	"petroleum": 0.20,
	"pms":       0.25,
	"gasoline":  0.20,
	"petrol":    0.20,
	"diesel":    0.20,
	"ago":       0.15,
	"jet fuel":  0.25,
	"kerosene":  0.15,
	"refinery":  0.20,
	"barrel":    0.15,
	"pipeline":  0.10,
	"lng":       0.15,
	"gas":       0.10,
	"energy":    0.10,
	"tanker":    0.15,
	"cargo":     0.10,
	"trading":   0.10,
	"export":    0.10,
	"import":    0.05,
}

var positiveTerms = []string{
	"rally", "rallied", "gain", "gains", "rise", "rises", "rose", "surge",
	"record high", "rebound", "recovery", "growth", "boost", "deal", "agreement",
}

var negativeTerms = []string{
	"fall", "falls", "fell", "drop", "drops", "plunge", "slump", "decline",
	"cut", "cuts", "sanction", "sanctions", "disruption", "shortage", "crash",
	"conflict", "attack", "spill",
}

// KeywordScorer is the deterministic fallback analyzer used when no Gemini
// API key is configured
type KeywordScorer struct{}

// Analyze scores by weighted keyword hits, clamped to [0,1]. Sentiment comes
// from the signed balance of tone words.
func (KeywordScorer) Analyze(_ context.Context, title, summary string) (float64, models.Sentiment, error) {
	titleLower := strings.ToLower(title)
	summaryLower := strings.ToLower(summary)

	var score float64
	for term, weight := range relevanceTerms {
		if containsWord(titleLower, term) {
			score += weight * 2
		} else if containsWord(summaryLower, term) {
			score += weight
		}
	}
	if score > 1 {
		score = 1
	}

	text := titleLower + " " + summaryLower
	balance := 0
	for _, term := range positiveTerms {
		if strings.Contains(text, term) {
			balance++
		}
	}
	for _, term := range negativeTerms {
		if strings.Contains(text, term) {
			balance--
		}
	}

	sentiment := models.SentimentNeutral
	if balance > 0 {
		sentiment = models.SentimentPositive
	} else if balance < 0 {
		sentiment = models.SentimentNegative
	}

	return score, sentiment, nil
}

// containsWord matches a term on word boundaries so "ago" does not hit
// inside "Chicago"
func containsWord(text, term string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], term)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isAlnum(text[i-1])
		afterIdx := i + len(term)
		after := afterIdx >= len(text) || !isAlnum(text[afterIdx])
		if before && after {
			return true
		}
		idx = i + len(term)
	}
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
