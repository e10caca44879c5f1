package knowledge

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/portochat/pkg/model"
)

// maxSummaryChars keeps the system prompt around 500 tokens.
const maxSummaryChars = 2000

// Summary renders the knowledge base as a compact system prompt for remote
// backends. Output is deterministic for a given knowledge base.
func Summary(kb *model.KnowledgeBase) string {
	p := kb.Personal
	var parts []string

	possessive := p.Pronouns.Possessive
	if possessive == "" {
		possessive = p.Nickname + "'s"
	}
	parts = append(parts, fmt.Sprintf("You are %s's AI assistant on %s portfolio website. Answer questions about %s (%s) concisely and stay on topic.",
		p.Nickname, possessive, p.Name, p.Role))

	if p.Location != "" {
		parts = append(parts, fmt.Sprintf("Location: %s.", p.Location))
	}
	if p.Experience != "" {
		parts = append(parts, fmt.Sprintf("Experience: %s.", p.Experience))
	}

	if skills := joinNonEmpty(kb.Skills.Primary, kb.Skills.Languages, kb.Skills.Technologies); skills != "" {
		parts = append(parts, fmt.Sprintf("Skills: %s.", skills))
	}

	for _, pos := range kb.Experience {
		parts = append(parts, fmt.Sprintf("%s at %s (%s).", pos.Position, pos.Company, pos.Duration))
	}

	for _, edu := range kb.Education {
		parts = append(parts, fmt.Sprintf("Studied %s at %s (%s).", edu.Degree, edu.Institution, edu.Duration))
	}

	if len(kb.Certificates) > 0 {
		parts = append(parts, fmt.Sprintf("Certificates: %s.", strings.Join(kb.Certificates, ", ")))
	}

	for _, proj := range kb.Projects {
		entry := fmt.Sprintf("Project %s: %s.", proj.Name, proj.Description)
		if link := proj.Link(); link != "" {
			entry += " " + link
		}
		parts = append(parts, entry)
	}

	if kb.Contact.GitHub != "" || kb.Contact.LinkedIn != "" {
		parts = append(parts, fmt.Sprintf("Contact: GitHub %s, LinkedIn %s.", kb.Contact.GitHub, kb.Contact.LinkedIn))
	}

	if len(kb.Interests.Current) > 0 {
		parts = append(parts, fmt.Sprintf("Interests: %s.", strings.Join(kb.Interests.Current, ", ")))
	}

	return truncate(strings.Join(parts, " "), maxSummaryChars)
}

func joinNonEmpty(lists ...[]string) string {
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}
	return strings.Join(all, ", ")
}

// truncate cuts s to at most limit bytes at a word boundary without splitting
// a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	end := limit
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	if idx := strings.LastIndex(s[:end], " "); idx > 0 {
		return s[:idx]
	}
	return s[:end]
}
