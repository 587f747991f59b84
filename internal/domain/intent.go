package domain

import "strings"

// IntentKind enumerates the closed set of purposes a user command can
// classify into.
type IntentKind string

// Recognized intent kinds
const (
	IntentFetch     IntentKind = "fetch"
	IntentSummarize IntentKind = "summarize"
	IntentSentiment IntentKind = "sentiment"
	IntentHelp      IntentKind = "help"
	IntentFreeform  IntentKind = "freeform"
)

// Intent is the classified purpose of a user's free-text command, as a
// closed tagged variant. Topic is populated for sentiment intents; Text
// carries the original command for freeform intents.
type Intent struct {
	Kind  IntentKind
	Topic string
	Text  string
}

// Classify maps a natural-language command to exactly one Intent. It is a
// total, deterministic function: every input produces an intent, with
// freeform as the universal fallback.
//
// Checks run in priority order — fetch, summarize, sentiment, help,
// freeform — because the keyword sets overlap ("news" appears in several
// phrasings) and the first match must win.
func Classify(text string) Intent {
	original := strings.TrimSpace(text)
	lower := strings.ToLower(original)

	switch {
	case strings.Contains(lower, "fetch"),
		strings.Contains(lower, "headline"),
		strings.Contains(lower, "get") && (strings.Contains(lower, "news") || strings.Contains(lower, "headlines")):
		return Intent{Kind: IntentFetch}

	case strings.Contains(lower, "summarize"), strings.Contains(lower, "summary"):
		return Intent{Kind: IntentSummarize}

	case strings.Contains(lower, "sentiment"):
		return Intent{Kind: IntentSentiment, Topic: sentimentTopic(lower)}

	case strings.Contains(lower, "help"):
		return Intent{Kind: IntentHelp}

	default:
		return Intent{Kind: IntentFreeform, Text: original}
	}
}

// sentimentTopic extracts the topic from an already-lowercased sentiment
// command: the remainder after the "sentiment" trigger, with connective
// words stripped from either end. Returns "" when no topic is present.
func sentimentTopic(lower string) string {
	_, rest, _ := strings.Cut(lower, "sentiment")
	words := strings.Fields(rest)

	for len(words) > 0 && isConnective(words[0]) {
		words = words[1:]
	}
	for len(words) > 0 && isConnective(words[len(words)-1]) {
		words = words[:len(words)-1]
	}

	return strings.Join(words, " ")
}

func isConnective(word string) bool {
	switch word {
	case "on", "about", "of", "for", "analysis":
		return true
	}
	return false
}
