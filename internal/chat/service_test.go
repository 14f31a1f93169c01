package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoGenerator replies with the prompt it received.
type echoGenerator struct {
	calls int
}

func (g *echoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return "reply to: " + prompt, nil
}

func TestService_SendRecordsHistory(t *testing.T) {
	gen := &echoGenerator{}
	svc := NewService(gen)

	reply, err := svc.Send(context.Background(), "alice", "how do I calm down?", "angry (confidence 0.82)")
	require.NoError(t, err)
	assert.Contains(t, reply, "angry (confidence 0.82)")
	assert.Contains(t, reply, "how do I calm down?")

	history := svc.History("alice")
	require.Len(t, history, 1)
	assert.Equal(t, "how do I calm down?", history[0].User)

	// history is per user
	assert.Empty(t, svc.History("bob"))
}

func TestService_HistoryCapped(t *testing.T) {
	svc := NewService(&echoGenerator{})

	for i := 0; i < maxHistory+10; i++ {
		_, err := svc.Send(context.Background(), "alice", fmt.Sprintf("message %d", i), "")
		require.NoError(t, err)
	}

	history := svc.History("alice")
	assert.Len(t, history, maxHistory)
	// the oldest turns were dropped
	assert.Equal(t, "message 10", history[0].User)
}

func TestService_ResetClearsHistory(t *testing.T) {
	svc := NewService(&echoGenerator{})

	_, err := svc.Send(context.Background(), "alice", "hello", "")
	require.NoError(t, err)
	require.NotEmpty(t, svc.History("alice"))

	svc.Reset("alice")
	assert.Empty(t, svc.History("alice"))
}

func TestBuildPrompt(t *testing.T) {
	withContext := BuildPrompt("hi", "happy (confidence 0.90)")
	assert.True(t, strings.Contains(withContext, "happy (confidence 0.90)"))

	withoutContext := BuildPrompt("hi", "")
	assert.False(t, strings.Contains(withoutContext, "Context:"))
}
