package faq

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/resumeforge/resumeforge/pkg/metrics"
)

type Category string

const (
	CategoryGreeting    Category = "greeting"
	CategoryHelp        Category = "help"
	CategoryTips        Category = "tips"
	CategoryFormat      Category = "format"
	CategorySkills      Category = "skills"
	CategoryExperience  Category = "experience"
	CategoryEducation   Category = "education"
	CategoryATS         Category = "ats"
	CategoryCoverLetter Category = "cover_letter"
	CategoryDefault     Category = "default"
)

type rule struct {
	category Category
	pattern  *regexp.Regexp
}

// rules are tried in order against the lower-cased input; the first match
// wins. Only greeting is anchored.
var rules = []rule{
	{CategoryGreeting, regexp.MustCompile(`^(hi|hello|hey|greetings)`)},
	{CategoryHelp, regexp.MustCompile(`help|what can you do|assist|support`)},
	{CategoryTips, regexp.MustCompile(`tip|advice|guideline|best practice`)},
	{CategoryFormat, regexp.MustCompile(`format|layout|style|structure`)},
	{CategorySkills, regexp.MustCompile(`skill|ability|competenc`)},
	{CategoryExperience, regexp.MustCompile(`experience|work history|job`)},
	{CategoryEducation, regexp.MustCompile(`educat|degree|university|school`)},
	{CategoryATS, regexp.MustCompile(`ats|applicant tracking|keyword`)},
	{CategoryCoverLetter, regexp.MustCompile(`cover letter|letter`)},
}

// Classify returns the category of input without picking a reply.
func Classify(input string) Category {
	lower := strings.ToLower(input)
	for _, r := range rules {
		if r.pattern.MatchString(lower) {
			return r.category
		}
	}
	return CategoryDefault
}

// Responder answers free text from the canned FAQ table. The greeting reply
// is drawn from a seedable source so tests are deterministic.
type Responder struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewResponder(seed int64) *Responder {
	return &Responder{rnd: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededResponder is what the server uses.
func NewTimeSeededResponder() *Responder {
	return NewResponder(time.Now().UnixNano())
}

// Respond never fails; unmatched input gets the default reply.
func (r *Responder) Respond(input string) (string, Category) {
	cat := Classify(input)
	replies := responses[cat]
	reply := replies[0]
	if len(replies) > 1 {
		r.mu.Lock()
		reply = replies[r.rnd.Intn(len(replies))]
		r.mu.Unlock()
	}
	metrics.ChatReplies.WithLabelValues(string(cat)).Inc()
	return reply, cat
}

// Greeting is the first line of every transcript.
func Greeting() string {
	return responses[CategoryGreeting][0]
}
