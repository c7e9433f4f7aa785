package usecase

import "aria/internal/domain"

// systemPersona is the fixed persona for every reply. Tone only, no logic.
const systemPersona = `You are Aria, a thoughtful and lucid conversational companion.
Answer clearly and warmly, in a natural, flowing voice. When context is
provided, stay grounded in it; when it is not, answer from your own
understanding. Reply in the language the user writes in.`

// BuildPrompt assembles the system/user pair sent to the model. With no
// composed context the query is passed through verbatim; otherwise the
// context is appended under a delimited "Context:" section.
func BuildPrompt(query, composedContext string) domain.Prompt {
	user := query
	if composedContext != "" {
		user = query + "\n\nContext:\n" + composedContext
	}

	return domain.Prompt{
		System: systemPersona,
		User:   user,
	}
}
