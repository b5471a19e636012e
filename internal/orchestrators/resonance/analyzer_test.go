package resonance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/orchestrators/resonance"
)

func TestAnalyzeEmotionChineseKeywords(t *testing.T) {
	dist := resonance.AnalyzeEmotion("今天超級開心，哈哈!")
	dominant, weight := dist.Dominant()

	assert.Equal(t, town.EmotionJoy, dominant)
	assert.Greater(t, weight, 0.0)
}

func TestAnalyzeEmotionEnglishKeywords(t *testing.T) {
	dist := resonance.AnalyzeEmotion("I'm so sad, I could cry")
	dominant, _ := dist.Dominant()

	assert.Equal(t, town.EmotionSadness, dominant)
}

func TestAnalyzeEmotionMixedSumsToOne(t *testing.T) {
	dist := resonance.AnalyzeEmotion("難過 but also happy somehow")

	sum := 0.0
	for _, v := range dist {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestAnalyzeEmotionNoHits(t *testing.T) {
	dist := resonance.AnalyzeEmotion("the weather report says rain")
	assert.True(t, dist.IsZero())
}

func TestCosineIdenticalVectors(t *testing.T) {
	a := resonance.AnalyzeEmotion("開心 快樂")
	assert.InDelta(t, 1.0, resonance.Cosine(a, a), 1e-9)
}

func TestCosineOrthogonalVectors(t *testing.T) {
	joy := resonance.AnalyzeEmotion("開心")
	anger := resonance.AnalyzeEmotion("生氣")
	assert.InDelta(t, 0.0, resonance.Cosine(joy, anger), 1e-9)
}

func TestCosineZeroVector(t *testing.T) {
	joy := resonance.AnalyzeEmotion("開心")
	var zero resonance.Distribution
	assert.Equal(t, 0.0, resonance.Cosine(joy, zero))
}
