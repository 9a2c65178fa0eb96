// Package press implements the single-game, single-process press bus:
// ordered, per-channel message delivery between agents during the
// DIPLOMACY phase.
package press

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ninthcircle/conclave/pkg/diplomacy"
	"github.com/ninthcircle/conclave/pkg/orderparser"
)

// Message is one delivered press message.
type Message struct {
	ID        string // unique per send, for client-side dedup/ack
	From      diplomacy.Power
	To        diplomacy.Power // empty for a broadcast-channel message
	Content   string
	Stage     orderparser.NegotiationStage
	Condition string
	SentAt    time.Time
}

// channelKey names either a private pair-channel or a per-power
// broadcast channel ("*" to "*" is the optional global channel).
type channelKey struct {
	A, B diplomacy.Power // private channel: sorted so (P,Q) == (Q,P)
}

func privateChannel(p1, p2 diplomacy.Power) channelKey {
	if p1 > p2 {
		p1, p2 = p2, p1
	}
	return channelKey{A: p1, B: p2}
}

func broadcastChannel(from diplomacy.Power) channelKey {
	return channelKey{A: from, B: ""}
}

// globalChannel is the optional runtime-configured all-powers channel.
var globalChannel = channelKey{A: "*", B: "*"}

// Bus is a bounded, FIFO-per-channel message store for one game.
type Bus struct {
	mu         sync.Mutex
	retention  int
	channels   map[channelKey][]Message
	drained    bool
	globalOn   bool
}

// defaultRetention matches the spec's default of 20 most recent
// messages retained per channel.
const defaultRetention = 20

// NewBus creates a Bus with the given per-channel retention. A
// retention of 0 uses the default of 20.
func NewBus(retention int, enableGlobalChannel bool) *Bus {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Bus{
		retention: retention,
		channels:  make(map[channelKey][]Message),
		globalOn:  enableGlobalChannel,
	}
}

// SendPrivate delivers a message on the private channel between two
// powers. Returns an error if the bus has been drained.
func (b *Bus) SendPrivate(from, to diplomacy.Power, content string, stage orderparser.NegotiationStage, condition string, sentAt time.Time) error {
	return b.send(privateChannel(from, to), Message{ID: uuid.NewString(), From: from, To: to, Content: content, Stage: stage, Condition: condition, SentAt: sentAt})
}

// SendBroadcast delivers a message on the sender's broadcast channel,
// visible to every other power.
func (b *Bus) SendBroadcast(from diplomacy.Power, content string, stage orderparser.NegotiationStage, condition string, sentAt time.Time) error {
	return b.send(broadcastChannel(from), Message{ID: uuid.NewString(), From: from, Content: content, Stage: stage, Condition: condition, SentAt: sentAt})
}

// SendGlobal delivers a message on the optional global channel, if the
// bus was configured with one enabled.
func (b *Bus) SendGlobal(from diplomacy.Power, content string, stage orderparser.NegotiationStage, condition string, sentAt time.Time) error {
	if !b.globalOn {
		return fmt.Errorf("press: global channel is not enabled")
	}
	return b.send(globalChannel, Message{ID: uuid.NewString(), From: from, Content: content, Stage: stage, Condition: condition, SentAt: sentAt})
}

func (b *Bus) send(key channelKey, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drained {
		return fmt.Errorf("press: bus is drained, no new messages accepted")
	}
	msgs := append(b.channels[key], msg)
	if len(msgs) > b.retention {
		msgs = msgs[len(msgs)-b.retention:]
	}
	b.channels[key] = msgs
	return nil
}

// PrivateChannel returns all retained messages between two powers,
// oldest first.
func (b *Bus) PrivateChannel(p1, p2 diplomacy.Power) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneMessages(b.channels[privateChannel(p1, p2)])
}

// BroadcastChannel returns all retained messages broadcast by a power,
// oldest first.
func (b *Bus) BroadcastChannel(from diplomacy.Power) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneMessages(b.channels[broadcastChannel(from)])
}

// GlobalChannel returns all retained messages on the global channel.
func (b *Bus) GlobalChannel() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneMessages(b.channels[globalChannel])
}

// VisibleTo returns every message a power should see: messages sent to
// it privately, its own broadcasts and those of other powers, and the
// global channel — merged and sorted by send time, oldest first.
func (b *Bus) VisibleTo(power diplomacy.Power, allPowers []diplomacy.Power) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Message
	for _, other := range allPowers {
		if other == power {
			continue
		}
		out = append(out, b.channels[privateChannel(power, other)]...)
		out = append(out, b.channels[broadcastChannel(other)]...)
	}
	out = append(out, b.channels[broadcastChannel(power)]...)
	if b.globalOn {
		out = append(out, b.channels[globalChannel]...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out
}

// Drain marks the bus closed to new sends and returns every retained
// message across all channels, for use during a phase transition.
func (b *Bus) Drain() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drained = true

	var all []Message
	for _, msgs := range b.channels {
		all = append(all, msgs...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].SentAt.Before(all[j].SentAt) })
	return all
}

// Reset clears all channels and reopens the bus for a new press period.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.channels = make(map[channelKey][]Message)
	b.drained = false
}

func cloneMessages(in []Message) []Message {
	if in == nil {
		return nil
	}
	out := make([]Message, len(in))
	copy(out, in)
	return out
}
