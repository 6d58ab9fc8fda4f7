package faq

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/pkg/metrics"
)

func TestClassifyOrder(t *testing.T) {
	cases := map[string]Category{
		"Hello there":                       CategoryGreeting,
		"hey, can you help?":                CategoryGreeting,
		"what can you do":                   CategoryHelp,
		"can you give me tips on format":    CategoryTips,
		"which layout should I use":         CategoryFormat,
		"How do I list my SKILLS":           CategorySkills,
		"describe my last job":              CategoryExperience,
		"Should I add my degree":            CategoryEducation,
		"will an applicant tracking system": CategoryATS,
		"cover letter":                      CategoryCoverLetter,
		"what is the weather today":         CategoryDefault,
		"good morning":                      CategoryDefault,
		"say hi":                            CategoryDefault,
	}
	for in, want := range cases {
		assert.Equal(t, want, Classify(in), in)
	}
}

func TestDefaultReply(t *testing.T) {
	r := NewResponder(1)
	reply, cat := r.Respond("good morning")
	assert.Equal(t, CategoryDefault, cat)
	assert.Equal(t, responses[CategoryDefault][0], reply)
}

func TestGreetingIsSeeded(t *testing.T) {
	a, b := NewResponder(42), NewResponder(42)
	for i := 0; i < 5; i++ {
		ra, _ := a.Respond("hi")
		rb, _ := b.Respond("hi")
		assert.Equal(t, ra, rb)
		assert.Contains(t, responses[CategoryGreeting], ra)
	}
}

func TestRespondCountsCategory(t *testing.T) {
	before := testutil.ToFloat64(metrics.ChatReplies.WithLabelValues(string(CategoryCoverLetter)))
	NewResponder(1).Respond("help me with a letter")
	NewResponder(1).Respond("letter")
	after := testutil.ToFloat64(metrics.ChatReplies.WithLabelValues(string(CategoryCoverLetter)))
	assert.Equal(t, before+1, after)
}

func TestChatStartsWithGreeting(t *testing.T) {
	c := NewChat(NewResponder(1), WithDelay(0))
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleBot, msgs[0].Role)
	assert.Equal(t, Greeting(), msgs[0].Text)
}

func TestChatIgnoresBlankInput(t *testing.T) {
	c := NewChat(NewResponder(1), WithDelay(0))
	_, ok := c.Send("   \n")
	assert.False(t, ok)
	assert.Len(t, c.Messages(), 1)
}

func TestChatAppendsUserThenDelayedReply(t *testing.T) {
	replied := make(chan Message, 1)
	c := NewChat(NewResponder(1), WithDelay(20*time.Millisecond), OnReply(func(m Message) {
		replied <- m
	}))

	msg, ok := c.Send("  any tips?  ")
	require.True(t, ok)
	assert.Equal(t, "any tips?", msg.Text)

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[1].Role)

	select {
	case m := <-replied:
		assert.Equal(t, responses[CategoryTips][0], m.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("reply never arrived")
	}
	c.Wait()
	msgs = c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleBot, msgs[2].Role)
	assert.Less(t, msgs[1].ID, msgs[2].ID)
}

func TestChatRepliesLandInSendOrder(t *testing.T) {
	inputs := []string{"hello", "what can you do", "any tips?", "skills", "experience", "education", "thanks", "help"}
	for round := 0; round < 20; round++ {
		twin := NewResponder(int64(round))
		want := make([]string, 0, len(inputs))
		for _, in := range inputs {
			reply, _ := twin.Respond(in)
			want = append(want, reply)
		}

		c := NewChat(NewResponder(int64(round)), WithDelay(time.Millisecond))
		for _, in := range inputs {
			_, ok := c.Send(in)
			require.True(t, ok)
		}
		c.Wait()

		var got []string
		for _, m := range c.Messages()[1:] {
			if m.Role == RoleBot {
				got = append(got, m.Text)
			}
		}
		require.Equal(t, want, got, "round %d", round)
	}
}
