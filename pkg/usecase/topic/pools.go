package topic

import (
	"fmt"

	"github.com/m-mizutani/portochat/pkg/model"
)

func redirectPool(kb *model.KnowledgeBase) []string {
	a := &answers{kb: kb}
	nick, role, poss := a.nick(), kb.Personal.Role, a.possessive()

	highlight := "innovative projects"
	if names := kb.ProjectNames(); len(names) > 0 {
		highlight = "innovative projects like " + names[0]
	}

	return []string{
		fmt.Sprintf("I can help with that, but just a friendly reminder - I'm %s's AI assistant! While I can answer general questions, I'm most knowledgeable about %s's work as a %s and %s projects. Feel free to ask about %s experience, skills, or projects anytime!",
			nick, nick, role, poss, poss),
		fmt.Sprintf("Sure, I can discuss that topic! By the way, as %s's AI assistant, I specialize in sharing information about %s professional background, expertise, and %s. Don't hesitate to ask about %s work!",
			nick, poss, highlight, poss),
		fmt.Sprintf("I'd be happy to help with that! Just so you know, I'm here as %s's AI assistant, so I'm particularly well-versed in %s career as a %s, %s technical skills, and %s projects. Feel free to explore those topics too!",
			nick, poss, role, poss, poss),
		fmt.Sprintf("Of course! As %s's AI assistant, I can answer various questions, but I'm especially knowledgeable about %s work and %s projects. Feel free to ask about %s professional journey anytime!",
			nick, poss, poss, poss),
	}
}

func contextPool(kb *model.KnowledgeBase) []string {
	a := &answers{kb: kb}
	nick, subj, poss := a.nick(), a.subject(), a.possessive()

	return []string{
		fmt.Sprintf("That's a fascinating question! Based on %s's portfolio, %s is a versatile %s with a wide range of expertise. What specific aspect interests you most?",
			nick, a.pronoun(), kb.Personal.Role),
		fmt.Sprintf("I'd love to help you learn more about %s's work! %s is particularly passionate about creating innovative solutions. Feel free to ask about any specific project or skill area.",
			nick, subj),
		fmt.Sprintf("Great question! %s's journey in tech has led %s to specialize as a %s while exploring new technologies. %s projects showcase this combination of skills.",
			nick, objectPronoun(kb), kb.Personal.Role, a.possessiveTitle()),
		fmt.Sprintf("I'm here to share insights about %s's professional journey! %s combines technical expertise with creative problem-solving in %s work. What would you like to explore?",
			nick, subj, poss),
	}
}

func personalityPool(kb *model.KnowledgeBase) []string {
	a := &answers{kb: kb}
	nick, subj, poss := a.nick(), a.subject(), a.possessive()

	return []string{
		fmt.Sprintf("You know, %s really enjoys the challenge of turning complex ideas into user-friendly applications. %s work shows %s passion for emerging technologies.",
			nick, a.possessiveTitle(), poss),
		fmt.Sprintf("What I find interesting about %s's approach is how %s combines everyday engineering with modern capabilities. It's a unique skill set in today's market.",
			nick, a.pronoun()),
		fmt.Sprintf("%s's experience spans from building products end to end to implementing sophisticated solutions. It's quite an impressive range of expertise!",
			nick),
		fmt.Sprintf("One thing that stands out about %s's work is %s focus on practical, real-world applications of technology. %s doesn't just build for the sake of building.",
			nick, poss, subj),
	}
}

// objectPronoun derives the object form from the subject pronoun.
func objectPronoun(kb *model.KnowledgeBase) string {
	switch kb.Personal.Pronouns.Subject {
	case "he":
		return "him"
	case "she":
		return "her"
	case "they":
		return "them"
	case "":
		return kb.Personal.Nickname
	default:
		return kb.Personal.Pronouns.Subject
	}
}
