package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mealwise/mealwise-backend/internal/mocks"
)

func TestEmbedCentroid_AveragesVectors(t *testing.T) {
	embedder := new(mocks.MockEmbeddingClient)
	embedder.On("Embed", mock.Anything, "I ate eggs").Return([]float32{1, 0}, nil)
	embedder.On("Embed", mock.Anything, "I had toast").Return([]float32{0, 1}, nil)

	centroid, err := embedCentroid(context.Background(), embedder, []string{"I ate eggs", "I had toast"})
	require.NoError(t, err)
	require.Len(t, centroid, 2)
	assert.InDelta(t, 0.5, float64(centroid[0]), 1e-6)
	assert.InDelta(t, 0.5, float64(centroid[1]), 1e-6)
}

func TestEmbedCentroid_RejectsLengthMismatch(t *testing.T) {
	embedder := new(mocks.MockEmbeddingClient)
	embedder.On("Embed", mock.Anything, "a").Return([]float32{1, 0}, nil)
	embedder.On("Embed", mock.Anything, "b").Return([]float32{0, 1, 0}, nil)

	_, err := embedCentroid(context.Background(), embedder, []string{"a", "b"})
	assert.ErrorContains(t, err, "length changed")
}

func TestEmbedCentroid_RejectsEmptyInput(t *testing.T) {
	_, err := embedCentroid(context.Background(), new(mocks.MockEmbeddingClient), nil)
	assert.Error(t, err)

	embedder := new(mocks.MockEmbeddingClient)
	embedder.On("Embed", mock.Anything, "a").Return([]float32{}, nil)
	_, err = embedCentroid(context.Background(), embedder, []string{"a"})
	assert.Error(t, err)
}
