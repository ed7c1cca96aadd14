package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/ai/aitest"
)

func TestParagraphSummary_PrependsSystemPrompt(t *testing.T) {
	fake := &aitest.Fake{ChatReply: "  段落です。 "}
	e := New(fake, fake)

	out, err := e.ParagraphSummary(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "a"}})
	require.NoError(t, err)
	assert.Equal(t, "段落です。", out)

	require.Len(t, fake.Calls, 1)
	assert.Equal(t, ai.RoleSystem, fake.Calls[0].Messages[0].Role)
	assert.Equal(t, "a", fake.Calls[0].Messages[1].Content)
}

func TestParagraphSummary_EmptyReplyUsesFallback(t *testing.T) {
	e := New(&aitest.Fake{}, nil)
	out, err := e.ParagraphSummary(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, fallbackSummary, out)
}

func TestParagraphSummary_RequestError(t *testing.T) {
	e := New(&aitest.Fake{ChatErr: errors.New("down")}, nil)
	_, err := e.ParagraphSummary(context.Background(), nil)
	assert.Error(t, err)
}

func TestTagsAndTitle(t *testing.T) {
	fake := &aitest.Fake{Functions: map[string]aitest.FunctionReply{
		"generate_tags_and_title": {Arguments: `{"tags":["ネットワーク"," ツール ","ネットワーク","a","b","c","d"],"title":" 学校でScratchが使えない "}`},
	}}
	tags, title, err := New(fake, nil).TagsAndTitle(context.Background(), "段落")
	require.NoError(t, err)
	assert.Equal(t, []string{"ネットワーク", "ツール", "a", "b", "c"}, tags)
	assert.Equal(t, "学校でScratchが使えない", title)
}

func TestTagsAndTitle_NoCallOrBadJSON(t *testing.T) {
	fake := &aitest.Fake{Functions: map[string]aitest.FunctionReply{
		"generate_tags_and_title": {NoCall: true},
	}}
	_, _, err := New(fake, nil).TagsAndTitle(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoFunctionCall)

	fake.Functions["generate_tags_and_title"] = aitest.FunctionReply{Arguments: "{not json"}
	_, _, err = New(fake, nil).TagsAndTitle(context.Background(), "p")
	assert.Error(t, err)
}

func TestIllustrate_UsesModelPrompt(t *testing.T) {
	fake := &aitest.Fake{
		Functions: map[string]aitest.FunctionReply{
			"generate_image_prompt": {Arguments: `{"prompt":"a clerk staring at a blocked page"}`},
		},
		ImageURL: "https://img.example/1.png",
	}
	ill, err := New(fake, fake).Illustrate(context.Background(), "summary", "title")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.png", ill.URL)
	assert.Equal(t, "a clerk staring at a blocked page", ill.Prompt)
	assert.Equal(t, 1, fake.Count("image", ""))
}

func TestIllustrationPrompt_Fallbacks(t *testing.T) {
	fake := &aitest.Fake{Functions: map[string]aitest.FunctionReply{
		"generate_image_prompt": {Arguments: "oops"},
	}}
	p, err := New(fake, nil).IllustrationPrompt(context.Background(), "the summary", "")
	require.NoError(t, err)
	assert.Contains(t, p, "the summary")

	fake.Functions["generate_image_prompt"] = aitest.FunctionReply{NoCall: true}
	p, err = New(fake, nil).IllustrationPrompt(context.Background(), "the summary", "the title")
	require.NoError(t, err)
	assert.Contains(t, p, "the title")
}

func TestIllustrate_ImageFailure(t *testing.T) {
	fake := &aitest.Fake{ImageErr: errors.New("quota")}
	_, err := New(fake, fake).Illustrate(context.Background(), "s", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")

	_, err = New(fake, nil).Illustrate(context.Background(), "s", "t")
	assert.ErrorIs(t, err, ErrNoImageGenerator)
}

func TestAnalyze(t *testing.T) {
	fake := &aitest.Fake{JSONReply: `{"Title":"Wi-Fi","summary":"s","tags":"ネットワーク, 端末管理"}`}
	a, err := New(fake, nil).Analyze(context.Background(), "input")
	require.NoError(t, err)
	assert.Equal(t, "Wi-Fi", a.Title)
	assert.Equal(t, "s", a.Summary)
	assert.Equal(t, []string{"ネットワーク", "端末管理"}, a.Tags)

	fake.JSONReply = `{"title":"t","summary":"s","tags":["x","y"]}`
	a, err = New(fake, nil).Analyze(context.Background(), "input")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, a.Tags)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := New(&aitest.Fake{}, nil).Analyze(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyAnalysis)

	_, err = New(&aitest.Fake{JSONReply: "not json"}, nil).Analyze(context.Background(), "x")
	assert.Error(t, err)
}
