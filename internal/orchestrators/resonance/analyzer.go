package resonance

import (
	"math"
	"strings"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// emotionCount is the number of categories in town.EmotionTypes
const emotionCount = 8

// Distribution is an 8-dimensional emotion vector in the canonical order of
// town.EmotionTypes. Its values sum to 1 unless no keyword matched at all.
type Distribution [emotionCount]float64

// emotionKeywords is the fixed lexicon per category. Conversations arrive in
// Chinese or English, so both are covered.
var emotionKeywords = map[town.EmotionType][]string{
	town.EmotionJoy: {
		"開心", "快樂", "高興", "太好了", "開心死了", "哈哈",
		"happy", "glad", "yay", "wonderful", "great",
	},
	town.EmotionSadness: {
		"難過", "傷心", "哭", "失落", "委屈", "心痛",
		"sad", "cry", "tears", "lonely", "miserable",
	},
	town.EmotionAnger: {
		"生氣", "憤怒", "討厭", "煩死了", "可惡",
		"angry", "furious", "hate", "annoyed", "mad",
	},
	town.EmotionFear: {
		"害怕", "恐懼", "擔心", "不安", "緊張",
		"afraid", "scared", "worried", "anxious", "nervous",
	},
	town.EmotionSurprise: {
		"驚訝", "沒想到", "意外", "嚇一跳", "居然",
		"surprised", "shocked", "unexpected", "wow", "amazing",
	},
	town.EmotionLove: {
		"愛", "喜歡", "想你", "親愛的", "溫柔",
		"love", "adore", "miss you", "dear", "sweet",
	},
	town.EmotionTrust: {
		"相信", "信任", "依靠", "放心", "安心",
		"trust", "believe", "rely", "faith", "safe",
	},
	town.EmotionAnticipation: {
		"期待", "等不及", "希望", "盼望", "明天見",
		"excited", "looking forward", "hope", "can't wait", "soon",
	},
}

// AnalyzeEmotion turns free text into an emotion distribution: keyword hits
// per category are normalized by that category's lexicon size, then the
// vector is renormalized to sum to 1. Text with no hits yields the zero
// vector.
func AnalyzeEmotion(text string) Distribution {
	var dist Distribution
	if text == "" {
		return dist
	}

	lowered := strings.ToLower(text)

	for i, emotion := range town.EmotionTypes {
		keywords := emotionKeywords[emotion]
		hits := 0
		for _, kw := range keywords {
			hits += strings.Count(lowered, kw)
		}
		dist[i] = float64(hits) / float64(len(keywords))
	}

	return dist.normalize()
}

func (d Distribution) normalize() Distribution {
	sum := 0.0
	for _, v := range d {
		sum += v
	}
	if sum == 0 {
		return d
	}

	var out Distribution
	for i, v := range d {
		out[i] = v / sum
	}
	return out
}

// IsZero reports whether no emotion registered at all
func (d Distribution) IsZero() bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}

// Dominant returns the strongest emotion category and its weight.
// Ties resolve to the earlier category in canonical order.
func (d Distribution) Dominant() (town.EmotionType, float64) {
	best := 0
	for i := 1; i < len(d); i++ {
		if d[i] > d[best] {
			best = i
		}
	}
	return town.EmotionTypes[best], d[best]
}

// Cosine computes the cosine similarity of two distributions. Either vector
// being zero yields 0.
func Cosine(a, b Distribution) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
