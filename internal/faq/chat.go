package faq

import (
	"strings"
	"sync"
	"time"
)

// DefaultDelay is how long the bot "types" before its reply is appended.
const DefaultDelay = 600 * time.Millisecond

type Role string

const (
	RoleBot  Role = "bot"
	RoleUser Role = "user"
)

type Message struct {
	ID   int       `json:"id"`
	Role Role      `json:"type"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Chat is a transcript. Send appends the user message at once and the
// reply after Delay; replies land in send order.
type Chat struct {
	responder *Responder
	delay     time.Duration
	now       func() time.Time

	mu       sync.Mutex
	messages []Message
	nextID   int
	pending  sync.WaitGroup
	onReply  func(Message)
	// tail is closed once the latest queued reply has been appended.
	tail chan struct{}
}

type ChatOption func(*Chat)

// WithDelay overrides DefaultDelay. Zero replies synchronously.
func WithDelay(d time.Duration) ChatOption {
	return func(c *Chat) { c.delay = d }
}

// WithClock replaces time.Now for message timestamps.
func WithClock(now func() time.Time) ChatOption {
	return func(c *Chat) { c.now = now }
}

// OnReply registers a callback for every bot reply.
func OnReply(fn func(Message)) ChatOption {
	return func(c *Chat) { c.onReply = fn }
}

func NewChat(r *Responder, opts ...ChatOption) *Chat {
	c := &Chat{responder: r, delay: DefaultDelay, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	c.appendLocked(RoleBot, Greeting())
	return c
}

// Send queues a reply to text. Blank input is ignored and reports false.
func (c *Chat) Send(text string) (Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, false
	}
	c.mu.Lock()
	msg := c.appendLocked(RoleUser, text)
	c.pending.Add(1)
	prev, done := c.tail, make(chan struct{})
	c.tail = done
	c.mu.Unlock()

	reply, _ := c.responder.Respond(text)
	if c.delay <= 0 {
		c.deliver(prev, done, reply)
		return msg, true
	}
	time.AfterFunc(c.delay, func() { c.deliver(prev, done, reply) })
	return msg, true
}

// deliver appends reply once the reply queued before it has landed.
func (c *Chat) deliver(prev, done chan struct{}, reply string) {
	if prev != nil {
		<-prev
	}
	c.mu.Lock()
	m := c.appendLocked(RoleBot, reply)
	cb := c.onReply
	c.mu.Unlock()
	if cb != nil {
		cb(m)
	}
	close(done)
	c.pending.Done()
}

func (c *Chat) appendLocked(role Role, text string) Message {
	c.nextID++
	m := Message{ID: c.nextID, Role: role, Text: text, At: c.now()}
	c.messages = append(c.messages, m)
	return m
}

// Wait blocks until every queued reply has been appended.
func (c *Chat) Wait() {
	c.pending.Wait()
}

// Messages returns a copy of the transcript.
func (c *Chat) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}
