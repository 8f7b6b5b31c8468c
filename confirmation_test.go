package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitInBackground(g *ConfirmationGate, authorID, channelID string) chan Outcome {
	outcome := make(chan Outcome, 1)
	go func() {
		outcome <- g.Await(authorID, channelID)
	}()

	return outcome
}

func waitForPrompt(t *testing.T, g *ConfirmationGate) {
	t.Helper()
	require.Eventually(t, func() bool {
		return g.pending.Count() > 0
	}, time.Second, time.Millisecond)
}

func TestConfirmationOutcomes(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Outcome
	}{
		{name: "si any case confirms", reply: "SI", want: Confirmed},
		{name: "si with spaces confirms", reply: " si ", want: Confirmed},
		{name: "no declines", reply: "No", want: Declined},
		{name: "anything else is invalid", reply: "maybe", want: Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewConfirmationGate(time.Second)
			outcome := awaitInBackground(gate, "author", "channel")
			waitForPrompt(t, gate)

			assert.True(t, gate.Resolve("author", "channel", tt.reply))

			select {
			case got := <-outcome:
				assert.Equal(t, tt.want, got)
			case <-time.After(time.Second):
				t.Fatal("Await did not return")
			}
		})
	}
}

func TestConfirmationTimesOut(t *testing.T) {
	gate := NewConfirmationGate(20 * time.Millisecond)

	assert.Equal(t, TimedOut, gate.Await("author", "channel"))
}

func TestConfirmationIgnoresOtherAuthorsAndChannels(t *testing.T) {
	gate := NewConfirmationGate(time.Second)
	outcome := awaitInBackground(gate, "author", "channel")
	waitForPrompt(t, gate)

	assert.False(t, gate.Resolve("someone-else", "channel", "si"))
	assert.False(t, gate.Resolve("author", "other-channel", "si"))

	assert.True(t, gate.Resolve("author", "channel", "si"))
	assert.Equal(t, Confirmed, <-outcome)
}

func TestConfirmationSingleUse(t *testing.T) {
	gate := NewConfirmationGate(time.Second)
	outcome := awaitInBackground(gate, "author", "channel")
	waitForPrompt(t, gate)

	assert.True(t, gate.Resolve("author", "channel", "no"))
	assert.Equal(t, Declined, <-outcome)

	assert.False(t, gate.Resolve("author", "channel", "si"), "a resolved prompt consumes no further replies")
}

func TestConfirmationNoPendingPrompt(t *testing.T) {
	gate := NewConfirmationGate(time.Second)

	assert.False(t, gate.Resolve("author", "channel", "si"))
}
