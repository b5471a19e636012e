package chance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearthvale/companion-api/internal/pkg/chance"
)

func TestHappensBoundaries(t *testing.T) {
	c := chance.New(chance.NewScripted(5000))

	assert.False(t, c.Happens(0))
	assert.False(t, c.Happens(-1))
	assert.True(t, c.Happens(1))
	assert.True(t, c.Happens(1.5))
}

func TestHappensScripted(t *testing.T) {
	// 8000/10000 > 0.6, 5000/10000 <= 0.6
	c := chance.New(chance.NewScripted(8000, 5000))

	assert.False(t, c.Happens(0.6))
	assert.True(t, c.Happens(0.6))
}

func TestIntn(t *testing.T) {
	c := chance.New(chance.NewScripted(3))
	assert.Equal(t, 2, c.Intn(5))
	assert.Equal(t, 0, c.Intn(1))
	assert.Equal(t, 0, c.Intn(0))
}

func TestWeightedIndex(t *testing.T) {
	// total weight 10; roll 1 → target 0.001 → first positive bucket
	c := chance.New(chance.NewScripted(1))
	assert.Equal(t, 1, c.WeightedIndex([]float64{0, 4, 6}))

	// roll 10000 → target 10 → last bucket
	c = chance.New(chance.NewScripted(10000))
	assert.Equal(t, 2, c.WeightedIndex([]float64{0, 4, 6}))

	// no positive weight
	assert.Equal(t, 0, c.WeightedIndex([]float64{0, 0}))
}
