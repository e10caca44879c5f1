package topic

import (
	"math/rand/v2"

	"github.com/m-mizutani/portochat/pkg/model"
)

// Topic is the rule branch a question was classified into.
type Topic string

const (
	TopicOffTopic     Topic = "off_topic"
	TopicGreeting     Topic = "greeting"
	TopicProjects     Topic = "projects"
	TopicSkills       Topic = "skills"
	TopicExperience   Topic = "experience"
	TopicEmployment   Topic = "employment"
	TopicEducation    Topic = "education"
	TopicCertificates Topic = "certificates"
	TopicContact      Topic = "contact"
	TopicLinkedIn     Topic = "linkedin"
	TopicAI           Topic = "ai"
	TopicMobile       Topic = "mobile"
	TopicProject      Topic = "project"
	TopicLanguage     Topic = "language"
	TopicOrganization Topic = "organization"
	TopicFallback     Topic = "fallback"
)

// Random picks an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// offTopicKeywords send the visitor back to the profile no matter what else
// the question mentions. They match as plain substrings, unlike rule
// keywords.
var offTopicKeywords = []string{
	"weather", "news", "politics", "sports", "movie", "music", "food", "travel",
	"other developer", "someone else", "another person", "general programming",
	"how to code", "tutorial", "learning", "course", "book", "advice",
	"current events", "world news", "stock market", "crypto", "bitcoin",
	"recipe", "cooking", "restaurant", "shopping", "fashion", "health",
	"medical", "doctor", "therapy", "relationship", "dating", "love",
}

// Responder answers questions about one profile with ordered keyword rules.
// It holds no mutable state besides the random source and is safe for
// concurrent use when the random source is.
type Responder struct {
	kb    *model.KnowledgeBase
	rand  Random
	rules []rule

	redirects []string
	fillers   []string
}

// Option is a functional option for Responder
type Option func(*Responder)

// WithRandom replaces the random source used to pick from answer pools.
func WithRandom(r Random) Option {
	return func(resp *Responder) {
		resp.rand = r
	}
}

// New creates a Responder over kb. kb must not be modified afterwards.
func New(kb *model.KnowledgeBase, opts ...Option) *Responder {
	r := &Responder{
		kb:   kb,
		rand: globalRandom{},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.rules = buildRules(kb)
	r.redirects = redirectPool(kb)
	r.fillers = append(contextPool(kb), personalityPool(kb)...)

	return r
}

// Respond returns the answer for text. Callers reject empty input before
// calling; an empty question gets a filler answer.
func (r *Responder) Respond(text string) string {
	t, answer := r.resolve(text)
	switch t {
	case TopicOffTopic:
		return r.pick(r.redirects)
	case TopicFallback:
		return r.pick(r.fillers)
	default:
		return answer()
	}
}

// Classify returns the rule branch text falls into without rendering an
// answer. It is deterministic for a given knowledge base.
func (r *Responder) Classify(text string) Topic {
	t, _ := r.resolve(text)
	return t
}

// RedirectPool returns the answers used for off-topic questions.
func (r *Responder) RedirectPool() []string {
	return append([]string(nil), r.redirects...)
}

// FillerPool returns the answers used when no rule matches.
func (r *Responder) FillerPool() []string {
	return append([]string(nil), r.fillers...)
}

func (r *Responder) resolve(text string) (Topic, func() string) {
	q := newQuery(text)

	if q.containsAny(offTopicKeywords...) {
		return TopicOffTopic, nil
	}

	for _, rl := range r.rules {
		if answer, ok := rl.match(q); ok {
			return rl.topic, answer
		}
	}

	return TopicFallback, nil
}

func (r *Responder) pick(pool []string) string {
	return pool[r.rand.IntN(len(pool))]
}
