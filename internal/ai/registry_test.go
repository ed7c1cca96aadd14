package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/ai/aitest"
	"github.com/suPer8Hu/dxcases/internal/config"
)

func TestRegistry_GetIsCaseInsensitive(t *testing.T) {
	fake := &aitest.Fake{ChatReply: "ok"}
	var gotModel string

	reg := ai.NewRegistry()
	reg.Register(" Fake ", func(ctx context.Context, model string) (ai.Client, error) {
		_ = ctx
		gotModel = model
		return fake, nil
	})

	c, err := reg.Get(context.Background(), "FAKE", "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", gotModel)

	reply, err := c.Chat(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestRegistry_UnknownProvider(t *testing.T) {
	_, err := ai.NewRegistry().Get(context.Background(), "nope", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ai provider")
}

func TestRegisterDefaults_MissingKeyFailsBeforeNetwork(t *testing.T) {
	reg := ai.NewRegistry()
	ai.RegisterDefaults(reg, config.Config{ChatModel: "gpt-4o"})

	c, err := reg.Get(context.Background(), "openai", "")
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "hi"}})
	assert.True(t, errors.Is(err, ai.ErrMissingAPIKey))

	_, err = c.Moderate(context.Background(), "text")
	assert.True(t, errors.Is(err, ai.ErrMissingAPIKey))

	_, err = c.GenerateImage(context.Background(), "a prompt")
	assert.True(t, errors.Is(err, ai.ErrMissingAPIKey))
}

func TestInstrument_PassesThrough(t *testing.T) {
	fake := &aitest.Fake{
		Functions: map[string]aitest.FunctionReply{
			"f": {Content: "c", Arguments: `{"a":1}`},
		},
		ImageErr: errors.New("boom"),
	}
	c := ai.Instrument(fake)
	assert.Same(t, c, ai.Instrument(c))

	out, err := c.CallFunction(context.Background(), nil, ai.Function{Name: "f"})
	require.NoError(t, err)
	require.NotNil(t, out.FunctionCall)
	assert.Equal(t, `{"a":1}`, out.FunctionCall.Arguments)

	_, err = c.GenerateImage(context.Background(), "p")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, fake.Count("image", ""))
}

func TestPrepend(t *testing.T) {
	msgs := []ai.Message{{Role: ai.RoleUser, Content: "a"}}
	out := ai.Prepend("sys", msgs)
	require.Len(t, out, 2)
	assert.Equal(t, ai.RoleSystem, out[0].Role)
	assert.Equal(t, "a", out[1].Content)
	assert.Len(t, msgs, 1)
}
