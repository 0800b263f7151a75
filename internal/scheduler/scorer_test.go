package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

func TestKeywordScorer_RelevantArticleScoresHigh(t *testing.T) {
	score, sentiment, err := KeywordScorer{}.Analyze(context.Background(),
		"OPEC agrees to extend crude oil production cuts",
		"Brent futures rose after the cartel extended output curbs for another quarter.")
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, score, defaultMinRelevance)
	assert.LessOrEqual(t, score, 1.0)
	// "cuts" outweighed by "rose"... both present; balance is 0 here
	assert.Contains(t, []models.Sentiment{
		models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative,
	}, sentiment)
}

func TestKeywordScorer_IrrelevantArticleScoresLow(t *testing.T) {
	score, _, err := KeywordScorer{}.Analyze(context.Background(),
		"Local football club wins championship",
		"Fans celebrated in the streets after the final whistle.")
	assert.NoError(t, err)
	assert.Less(t, score, defaultMinRelevance)
}

func TestKeywordScorer_SentimentBalance(t *testing.T) {
	ctx := context.Background()

	_, sentiment, _ := KeywordScorer{}.Analyze(ctx,
		"Oil prices surge to record high", "Brent posted strong gains this week.")
	assert.Equal(t, models.SentimentPositive, sentiment)

	_, sentiment, _ = KeywordScorer{}.Analyze(ctx,
		"Crude prices plunge on demand fears", "A sharp decline hit the market.")
	assert.Equal(t, models.SentimentNegative, sentiment)

	_, sentiment, _ = KeywordScorer{}.Analyze(ctx,
		"Refinery maintenance scheduled for July", "Routine turnaround work begins next month.")
	assert.Equal(t, models.SentimentNeutral, sentiment)
}

func TestKeywordScorer_ScoreClamped(t *testing.T) {
	score, _, _ := KeywordScorer{}.Analyze(context.Background(),
		"OPEC crude oil brent wti petroleum gasoline diesel jet fuel refinery barrel",
		"opec crude oil brent wti petroleum gasoline diesel jet fuel refinery barrel tanker lng energy trading export")
	assert.Equal(t, 1.0, score)
}

func TestContainsWord_Boundaries(t *testing.T) {
	assert.True(t, containsWord("prices of ago rose", "ago"))
	assert.False(t, containsWord("a chicago refinery story", "ago"))
	assert.True(t, containsWord("gas prices", "gas"))
	assert.False(t, containsWord("gasoline prices", "gas"))
}

func TestNextRun(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(45*time.Minute), NextRun(now, 45))
	// Non-positive intervals fall back to hourly
	assert.Equal(t, now.Add(time.Hour), NextRun(now, 0))
	assert.Equal(t, now.Add(time.Hour), NextRun(now, -5))
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, SuccessRate(0, 0))
	assert.Equal(t, 100.0, SuccessRate(5, 5))
	assert.Equal(t, 50.0, SuccessRate(1, 2))
	assert.Equal(t, 66.7, SuccessRate(2, 3))
}

func TestRateWindowExpired(t *testing.T) {
	now := time.Now().UTC()
	assert.True(t, RateWindowExpired(nil, now))

	recent := now.Add(-30 * time.Minute)
	assert.False(t, RateWindowExpired(&recent, now))

	old := now.Add(-61 * time.Minute)
	assert.True(t, RateWindowExpired(&old, now))
}

func TestPriceChange(t *testing.T) {
	change, pct := PriceChange(80.0, 84.0)
	assert.Equal(t, 4.0, change)
	assert.Equal(t, 5.0, pct)

	change, pct = PriceChange(0, 84.0)
	assert.Equal(t, 84.0, change)
	assert.Equal(t, 0.0, pct)
}
