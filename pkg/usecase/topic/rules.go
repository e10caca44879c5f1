package topic

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/portochat/pkg/model"
)

type rule struct {
	topic Topic
	match func(q *query) (func() string, bool)
}

// keywordRule fires when any keyword is present and renders a fixed answer.
func keywordRule(t Topic, answer func() string, keywords ...string) rule {
	return rule{
		topic: t,
		match: func(q *query) (func() string, bool) {
			return answer, q.hasAny(keywords...)
		},
	}
}

// buildRules returns the topic rules in priority order. The first match wins;
// order matters more than specificity, e.g. "work" reaches projects before
// employment.
func buildRules(kb *model.KnowledgeBase) []rule {
	a := &answers{kb: kb}

	return []rule{
		keywordRule(TopicGreeting, a.greeting, "hello", "hi", "hey"),
		keywordRule(TopicProjects, a.projects, "project", "work"),
		keywordRule(TopicSkills, a.skills, "skill", "technology", "tech"),
		keywordRule(TopicExperience, a.experience, "experience", "background"),
		keywordRule(TopicEmployment, a.employment, "work", "job", "company"),
		keywordRule(TopicEducation, a.education, "education", "degree", "university"),
		keywordRule(TopicCertificates, a.certificates, "certificate", "certification"),
		keywordRule(TopicContact, a.contact, "contact", "hire", "collaborate"),
		keywordRule(TopicLinkedIn, a.linkedin, "linkedin", "professional", "network"),
		keywordRule(TopicAI, a.ai, "ai", "machine learning", "ml"),
		keywordRule(TopicMobile, a.mobile, "mobile", "app", "react native"),
		{topic: TopicProject, match: a.namedProject},
		{topic: TopicLanguage, match: a.language},
		keywordRule(TopicOrganization, a.organization, "organization", "team"),
	}
}

type answers struct {
	kb *model.KnowledgeBase
}

func (a *answers) nick() string { return a.kb.Personal.Nickname }

// pronoun returns the subject pronoun, or the nickname when none is set.
func (a *answers) pronoun() string {
	if s := a.kb.Personal.Pronouns.Subject; s != "" {
		return s
	}
	return a.nick()
}

// subject returns the capitalized subject pronoun for sentence starts.
func (a *answers) subject() string {
	s := a.kb.Personal.Pronouns.Subject
	if s == "" {
		return a.nick()
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (a *answers) possessive() string {
	if p := a.kb.Personal.Pronouns.Possessive; p != "" {
		return p
	}
	return a.nick() + "'s"
}

func (a *answers) possessiveTitle() string {
	p := a.possessive()
	return strings.ToUpper(p[:1]) + p[1:]
}

func (a *answers) greeting() string {
	p := a.kb.Personal
	return fmt.Sprintf("Hello! I'm %s's AI assistant. I know all about %s work as a %s with %s. I can tell you about %s projects, skills, and experience. What would you like to know?",
		p.Nickname, a.possessive(), p.Role, p.Experience, a.possessive())
}

func (a *answers) projects() string {
	return fmt.Sprintf("%s has worked on several interesting projects: %s. %s specializes in %s and has experience in %s. Would you like to know more about any specific project?",
		a.nick(), strings.Join(a.kb.ProjectNames(), ", "), a.subject(),
		strings.Join(a.kb.Skills.Primary, " and "), strings.Join(a.kb.Skills.Technologies, ", "))
}

func (a *answers) skills() string {
	s := a.kb.Skills
	return fmt.Sprintf("%s's tech stack includes %s, %s, and %s. %s is currently exploring %s.",
		a.nick(), strings.Join(s.Primary, ", "), strings.Join(s.Languages, ", "),
		strings.Join(s.Technologies, ", "), a.subject(), strings.Join(a.kb.Interests.Current, " and "))
}

func (a *answers) experience() string {
	p := a.kb.Personal
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a %s with %s.", p.Nickname, p.Role, p.Experience)

	for i, pos := range a.kb.Experience {
		if i == 0 {
			fmt.Fprintf(&b, " %s currently works at %s as a %s (%s).", a.subject(), pos.Company, pos.Position, pos.Duration)
			if len(pos.Achievements) > 0 {
				fmt.Fprintf(&b, " Highlights: %s.", strings.Join(pos.Achievements, "; "))
			}
			continue
		}
		fmt.Fprintf(&b, " %s also worked as a %s at %s (%s).", a.subject(), pos.Position, pos.Company, pos.Duration)
	}
	return b.String()
}

func (a *answers) employment() string {
	pos, ok := a.kb.CurrentPosition()
	if !ok {
		return fmt.Sprintf("%s is a %s with %s.", a.nick(), a.kb.Personal.Role, a.kb.Personal.Experience)
	}

	msg := fmt.Sprintf("%s currently works as a %s at %s (%s)", a.nick(), pos.Position, pos.Company, pos.Duration)
	if pos.Location != "" {
		msg += " in " + pos.Location
	}
	msg += "."
	for _, achievement := range pos.Achievements {
		msg += " " + achievement + "."
	}
	return msg
}

func (a *answers) education() string {
	var parts []string
	for i, edu := range a.kb.Education {
		switch {
		case i == 0 && strings.Contains(edu.Duration, "present"):
			parts = append(parts, fmt.Sprintf("%s is currently studying %s at %s (%s).", a.nick(), edu.Degree, edu.Institution, edu.Duration))
		case i == 0:
			parts = append(parts, fmt.Sprintf("%s studied %s at %s (%s).", a.nick(), edu.Degree, edu.Institution, edu.Duration))
		default:
			parts = append(parts, fmt.Sprintf("%s previously studied %s at %s (%s).", a.subject(), edu.Degree, edu.Institution, edu.Duration))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s hasn't shared %s education details yet.", a.nick(), a.possessive())
	}
	return strings.Join(parts, " ")
}

func (a *answers) certificates() string {
	if len(a.kb.Certificates) == 0 {
		return fmt.Sprintf("%s hasn't listed any certificates yet.", a.nick())
	}
	return fmt.Sprintf("%s has several certificates including %s.", a.nick(), joinWithAnd(a.kb.Certificates))
}

func (a *answers) contact() string {
	c := a.kb.Contact
	return fmt.Sprintf("You can connect with %s on GitHub at %s or LinkedIn at %s. %s is always open to discussing new projects, creative ideas, or opportunities to be part of your visions!",
		a.nick(), c.GitHub, c.LinkedIn, a.subject())
}

func (a *answers) linkedin() string {
	c := a.kb.Contact
	return fmt.Sprintf("You can connect with %s on LinkedIn at %s for professional networking and career opportunities. %s is also active on GitHub at %s.",
		a.nick(), c.LinkedIn, a.subject(), c.GitHub)
}

func (a *answers) ai() string {
	return fmt.Sprintf("%s has extensive experience in AI and Machine Learning! %s builds intelligent solutions with modern AI technology alongside %s mobile work. %s projects include %s.",
		a.nick(), a.subject(), a.possessive(), a.possessiveTitle(), strings.Join(a.kb.ProjectNames(), ", "))
}

func (a *answers) mobile() string {
	focus := "cross-platform frameworks"
	if len(a.kb.Skills.Primary) > 0 {
		focus = a.kb.Skills.Primary[0]
	}
	return fmt.Sprintf("Mobile development is %s's specialty! %s focuses on %s for cross-platform mobile app development, creating solutions that work seamlessly on both iOS and Android. %s loves %s.",
		a.nick(), a.subject(), focus, a.subject(), strings.Join(a.kb.Interests.Passion, " and "))
}

// namedProject selects the project whose keyword matches with the longest
// keyword, so "cocospeak" wins over "coco".
func (a *answers) namedProject(q *query) (func() string, bool) {
	var (
		best    model.Project
		bestLen int
	)
	for _, p := range a.kb.Projects {
		for _, kw := range p.Keywords {
			if len(kw) > bestLen && q.has(kw) {
				best, bestLen = p, len(kw)
			}
		}
	}
	if bestLen == 0 {
		return nil, false
	}

	return func() string { return projectAnswer(best) }, true
}

func projectAnswer(p model.Project) string {
	msg := fmt.Sprintf("%s. It's built with %s and features %s.", p.Description, p.Tech, strings.Join(p.Features, ", "))
	if link := p.Link(); link != "" {
		msg += " You can check it out at " + link
	}
	return msg
}

// language answers questions naming a programming language, preferring
// languages being learned over ones already used.
func (a *answers) language(q *query) (func() string, bool) {
	for _, lang := range a.kb.Interests.Learning {
		if q.has(lang) {
			return func() string {
				return fmt.Sprintf("%s is currently learning %s as part of %s continuous learning journey. %s is always exploring new technologies to expand %s skill set!",
					a.nick(), lang, a.possessive(), a.subject(), a.possessive())
			}, true
		}
	}

	for _, lang := range a.kb.Skills.Languages {
		if q.has(lang) {
			return func() string {
				return fmt.Sprintf("Yes, %s works with %s. %s full list of languages is %s.",
					a.nick(), lang, a.possessiveTitle(), joinWithAnd(a.kb.Skills.Languages))
			}, true
		}
	}

	return nil, false
}

func (a *answers) organization() string {
	if len(a.kb.Organizations) == 0 {
		return fmt.Sprintf("%s works independently and collaborates with teams per project.", a.nick())
	}
	handles := make([]string, 0, len(a.kb.Organizations))
	for _, org := range a.kb.Organizations {
		handles = append(handles, "@"+org.Handle)
	}
	return fmt.Sprintf("%s is part of the %s organizations. %s collaborates with talented developers to create impactful projects.",
		a.nick(), joinWithAnd(handles), a.subject())
}

// joinWithAnd joins items as "a, b, and c".
func joinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
