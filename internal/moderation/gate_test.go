package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/ai/aitest"
)

func TestReview_Flagged(t *testing.T) {
	fake := &aitest.Fake{Moderation: &ai.ModerationResult{
		Flagged:        true,
		Categories:     map[string]bool{"violence": true, "hate": false},
		CategoryScores: map[string]float64{"violence": 0.97},
	}}
	v, err := NewGate(fake).Review(context.Background(), "殴ってやる")
	require.NoError(t, err)

	assert.True(t, v.Flagged)
	assert.Equal(t, []string{"violence"}, v.FlaggedCategories())
	assert.JSONEq(t, `{"flagged":true,"categories":{"violence":true,"hate":false},"category_scores":{"violence":0.97}}`, v.JSON())
	assert.Equal(t, 1, fake.Count("moderation", ""))
}

func TestReview_CleanHasEmptyMaps(t *testing.T) {
	v, err := NewGate(&aitest.Fake{}).Review(context.Background(), "Scratchが使えなかった")
	require.NoError(t, err)
	assert.False(t, v.Flagged)
	assert.NotNil(t, v.Categories)
	assert.NotNil(t, v.CategoryScores)
}

func TestReview_Errors(t *testing.T) {
	fake := &aitest.Fake{}
	_, err := NewGate(fake).Review(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Zero(t, fake.Count("moderation", ""))

	boom := errors.New("upstream down")
	_, err = NewGate(&aitest.Fake{ModerationErr: boom}).Review(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}
