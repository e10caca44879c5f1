package topic_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/portochat/pkg/knowledge"
	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/usecase/topic"
)

func loadKB(t *testing.T) *model.KnowledgeBase {
	t.Helper()
	kb, err := knowledge.Default()
	gt.NoError(t, err)
	return kb
}

type fixedRandom int

func (f fixedRandom) IntN(n int) int { return int(f) % n }

func TestClassify(t *testing.T) {
	r := topic.New(loadKB(t))

	testCases := []struct {
		input string
		want  topic.Topic
	}{
		{"Hello there", topic.TopicGreeting},
		{"Show me your projects", topic.TopicProjects},
		{"What skills does he have?", topic.TopicSkills},
		{"What's your experience?", topic.TopicExperience},
		{"Where is his job?", topic.TopicEmployment},
		{"Any degree?", topic.TopicEducation},
		{"tell me about your certificates", topic.TopicCertificates},
		{"How can I contact him?", topic.TopicContact},
		{"Is he on LinkedIn?", topic.TopicLinkedIn},
		{"Does he do AI?", topic.TopicAI},
		{"Does he build mobile apps?", topic.TopicMobile},
		{"What is coco?", topic.TopicProject},
		{"What is cocospeak?", topic.TopicProject},
		{"Does he know Rust?", topic.TopicLanguage},
		{"Does he write Python?", topic.TopicLanguage},
		{"Which organization is he in?", topic.TopicOrganization},
		{"What is the meaning of life?", topic.TopicFallback},
		{"this detail", topic.TopicFallback},
		{"What's the weather like?", topic.TopicOffTopic},
		{"What news about your AI projects?", topic.TopicOffTopic},
		{"Any crypto advice? Also your skills", topic.TopicOffTopic},
		{"Any seafood places near his office?", topic.TopicOffTopic},
		{"Does he listen to audiobooks?", topic.TopicOffTopic},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			gt.Equal(t, r.Classify(tc.input), tc.want)
			// same branch on every call
			gt.Equal(t, r.Classify(tc.input), tc.want)
		})
	}
}

func TestOffTopicAlwaysRedirects(t *testing.T) {
	r := topic.New(loadKB(t), topic.WithRandom(rand.New(rand.NewPCG(1, 2))))
	pool := r.RedirectPool()
	gt.A(t, pool).Length(4)

	inputs := []string{
		"What's the weather like?",
		"Tell me about your projects and politics",
		"Any music you like? Also your certificates",
		"hello, any stock market tips?",
		"Is machine learning his thing?",
		"Any seafood places near his office?",
		"Does he listen to audiobooks?",
		"What's his favourite fastfood?",
	}
	for _, input := range inputs {
		for range 20 {
			gt.True(t, slices.Contains(pool, r.Respond(input)))
		}
	}
}

func TestCertificatesListsEveryCertificate(t *testing.T) {
	kb := loadKB(t)
	answer := topic.New(kb).Respond("tell me about your certificates")

	for _, cert := range kb.Certificates {
		gt.S(t, answer).Contains(cert)
	}
}

func TestNamedProjectLookup(t *testing.T) {
	kb := loadKB(t)
	r := topic.New(kb)

	testCases := []struct {
		input   string
		project string
	}{
		{"What is coco?", "Coco Face Recognition"},
		{"Tell me about llm", "LLM Chat"},
		{"What is cocospeak?", "CocoSpeak"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			proj, ok := kb.Project(tc.project)
			gt.True(t, ok)

			answer := r.Respond(tc.input)
			gt.S(t, answer).Contains(proj.Description)
			gt.S(t, answer).Contains("built with " + proj.Tech)
			for _, f := range proj.Features {
				gt.S(t, answer).Contains(f)
			}
			gt.S(t, answer).Contains(proj.GitHub)
		})
	}
}

func TestEveryProjectKeywordResolvesToItsProject(t *testing.T) {
	kb := loadKB(t)
	r := topic.New(kb)

	for _, proj := range kb.Projects {
		for _, kw := range proj.Keywords {
			input := "Tell me about " + kw
			gt.Equal(t, r.Classify(input), topic.TopicProject)

			answer := r.Respond(input)
			gt.S(t, answer).Contains(proj.Description)
			gt.S(t, answer).Contains(proj.Link())
		}
	}
}

func TestExperienceAnswer(t *testing.T) {
	kb := loadKB(t)
	answer := topic.New(kb).Respond("What's your experience?")

	pos, ok := kb.CurrentPosition()
	gt.True(t, ok)

	gt.S(t, answer).Contains(kb.Personal.Role)
	gt.S(t, answer).Contains(kb.Personal.Experience)
	gt.S(t, answer).Contains(pos.Company)
	gt.S(t, answer).Contains(pos.Duration)
}

func TestFallbackDrawsFromFillerPool(t *testing.T) {
	kb := loadKB(t)

	r := topic.New(kb, topic.WithRandom(rand.New(rand.NewPCG(7, 7))))
	pool := r.FillerPool()
	gt.A(t, pool).Length(8)

	for range 50 {
		answer := r.Respond("What is the meaning of life?")
		gt.True(t, slices.Contains(pool, answer))
	}

	for i := range pool {
		fixed := topic.New(kb, topic.WithRandom(fixedRandom(i)))
		gt.Equal(t, fixed.Respond("What is the meaning of life?"), pool[i])
	}
}

func TestAnswersInterpolateKnowledgeBase(t *testing.T) {
	kb := loadKB(t)
	kb.Personal.Nickname = "Jo"
	kb.Personal.Pronouns = model.Pronouns{Subject: "she", Possessive: "her"}
	kb.Contact.GitHub = "https://github.com/jo"
	r := topic.New(kb)

	gt.S(t, r.Respond("hello")).Contains("I'm Jo's AI assistant")
	gt.S(t, r.Respond("hello")).Contains("her work")
	gt.S(t, r.Respond("How can I contact her?")).Contains("https://github.com/jo")
	gt.S(t, r.Respond("Does he know Rust?")).Contains("She is always exploring")

	for _, msg := range r.RedirectPool() {
		gt.S(t, msg).Contains("Jo's AI assistant")
	}
}

func TestLanguageAnswers(t *testing.T) {
	kb := loadKB(t)
	r := topic.New(kb)

	gt.S(t, r.Respond("Does he know Rust?")).Contains("currently learning Rust")
	gt.S(t, r.Respond("Does he write Golang?")).Contains("works with Golang")
}

func TestOrganizationAnswer(t *testing.T) {
	answer := topic.New(loadKB(t)).Respond("Which team is he on?")
	gt.S(t, answer).Contains("@macra-id and @Gliana-Labs")
}
