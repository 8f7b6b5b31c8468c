package main

import (
	"strings"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Outcome is the terminal state of a confirmation prompt
type Outcome int

const (
	// Confirmed means the author replied si
	Confirmed Outcome = iota
	// Declined means the author replied no
	Declined
	// Invalid means the author replied something else
	Invalid
	// TimedOut means the window elapsed without a reply
	TimedOut
)

// How long an author has to answer a confirmation prompt
const confirmationWindow = 30 * time.Second

// ConfirmationGate hands out single-use yes/no prompts, each resolved
// by the next message of the same author in the same channel or by the
// timeout, whichever comes first
type ConfirmationGate struct {
	timeout time.Duration
	pending cmap.ConcurrentMap[string, chan string]
}

func NewConfirmationGate(timeout time.Duration) *ConfirmationGate {
	return &ConfirmationGate{
		timeout: timeout,
		pending: cmap.New[chan string](),
	}
}

func confirmationKey(authorID, channelID string) string {
	return authorID + "/" + channelID
}

// Await blocks until the author replies in the channel or the window
// elapses. A newer prompt for the same author and channel replaces the
// older one, which can then only time out
func (g *ConfirmationGate) Await(authorID, channelID string) Outcome {
	key := confirmationKey(authorID, channelID)

	replies := make(chan string, 1)
	g.pending.Set(key, replies)
	defer g.pending.RemoveCb(key, func(_ string, current chan string, exists bool) bool {
		return exists && current == replies
	})

	select {
	case content := <-replies:
		switch strings.ToLower(strings.TrimSpace(content)) {
		case "si":
			return Confirmed
		case "no":
			return Declined
		default:
			return Invalid
		}
	case <-time.After(g.timeout):
		return TimedOut
	}
}

// Resolve feeds a message into the pending prompt of its author and
// channel, if one exists. Reports whether the message was consumed as
// a confirmation reply
func (g *ConfirmationGate) Resolve(authorID, channelID, content string) bool {
	key := confirmationKey(authorID, channelID)

	replies, ok := g.pending.Get(key)
	if !ok {
		return false
	}
	g.pending.Remove(key)

	select {
	case replies <- content:
		return true
	default:
		return false
	}
}
