package discussion

import (
	"fmt"
	"strings"

	"future-workshop/internal/llm"
	"future-workshop/internal/persona"
)

// historyWindow returns the most recent n entries. Older history is ignored
// to bound prompt size.
func historyWindow(entries []HistoryEntry, n int) []HistoryEntry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

// buildMessages composes the provider request for one persona: its behavioral
// template, the shared discussion context, a bounded history window, the views
// already produced by earlier personas this turn, the user's message, and the
// length-band instruction.
func buildMessages(p persona.Persona, dctx Context, history []HistoryEntry, userMessage string, prior []PersonaResult, minWords, maxWords int) []llm.ChatMessage {
	var b strings.Builder
	b.WriteString(p.PromptTemplate)

	if dctx.Topic != "" {
		fmt.Fprintf(&b, "\nDiscussion topic: %s", dctx.Topic)
	}
	if len(dctx.SelectedChallenges) > 0 {
		fmt.Fprintf(&b, "\nChallenges under discussion: %s", strings.Join(dctx.SelectedChallenges, ", "))
	}
	if dctx.Interpretation != "" {
		fmt.Fprintf(&b, "\nBackground: %s", dctx.Interpretation)
	}

	b.WriteString("\n\nConversation so far:\n")
	for _, entry := range history {
		switch entry.Role {
		case EntryUser:
			fmt.Fprintf(&b, "User: %s\n", entry.Content)
		case EntryPersona:
			name := entry.Name
			if name == "" {
				name = "Participant"
			}
			fmt.Fprintf(&b, "%s: %s\n", name, entry.Content)
		}
	}

	fmt.Fprintf(&b, "\nThe user says: %s\n", userMessage)

	if len(prior) > 0 {
		b.WriteString("\nOther participants' views:\n")
		for _, res := range prior {
			fmt.Fprintf(&b, "%s: %s\n", res.Persona.DisplayName, res.Text)
		}
	}

	fmt.Fprintf(&b, `
Respond in character. Requirements:
1. Keep your reply strictly between %d and %d words; anything longer will be truncated
2. You may endorse or push back on other participants' views, but stay concise and forceful
3. Reflect your role's background and priorities
4. Offer one or two concrete suggestions
5. Reply directly, without prefixing your name
6. Keep the language tight and persuasive, no padding`, minWords, maxWords)

	return []llm.ChatMessage{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: fmt.Sprintf("Give your view now, in character, within the %d-%d word limit.", minWords, maxWords)},
	}
}
