package domain

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{
			name: "fetch keyword",
			text: "fetch the latest news please",
			want: Intent{Kind: IntentFetch},
		},
		{
			name: "headline keyword",
			text: "show me today's headlines",
			want: Intent{Kind: IntentFetch},
		},
		{
			name: "get plus news",
			text: "get me some news",
			want: Intent{Kind: IntentFetch},
		},
		{
			name: "summarize keyword",
			text: "summarize what happened today",
			want: Intent{Kind: IntentSummarize},
		},
		{
			name: "summary keyword",
			text: "give me a summary",
			want: Intent{Kind: IntentSummarize},
		},
		{
			name: "sentiment with topic",
			text: "analyze sentiment on artificial intelligence",
			want: Intent{Kind: IntentSentiment, Topic: "artificial intelligence"},
		},
		{
			name: "sentiment without topic",
			text: "sentiment",
			want: Intent{Kind: IntentSentiment, Topic: ""},
		},
		{
			name: "sentiment about topic",
			text: "what is the sentiment about climate change",
			want: Intent{Kind: IntentSentiment, Topic: "climate change"},
		},
		{
			name: "help keyword",
			text: "help",
			want: Intent{Kind: IntentHelp},
		},
		{
			name: "freeform fallback",
			text: "who won the election?",
			want: Intent{Kind: IntentFreeform, Text: "who won the election?"},
		},
		{
			name: "freeform preserves original casing",
			text: "  Tell me about Mars  ",
			want: Intent{Kind: IntentFreeform, Text: "Tell me about Mars"},
		},
		{
			name: "empty input",
			text: "",
			want: Intent{Kind: IntentFreeform, Text: ""},
		},
		{
			name: "fetch wins over summarize",
			text: "fetch a summary of the news",
			want: Intent{Kind: IntentFetch},
		},
		{
			name: "summarize wins over sentiment",
			text: "summarize the sentiment of the news",
			want: Intent{Kind: IntentSummarize},
		},
		{
			name: "sentiment wins over help",
			text: "help me with sentiment analysis on bitcoin",
			want: Intent{Kind: IntentSentiment, Topic: "bitcoin"},
		},
		{
			name: "case insensitive",
			text: "FETCH NEWS",
			want: Intent{Kind: IntentFetch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.text)
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	t.Parallel()

	// Arbitrary strings must always classify to a recognized kind.
	inputs := []string{"", "   ", "!!??", "xyzzy plugh", "\n\t", "1234567890"}
	for _, input := range inputs {
		intent := Classify(input)
		switch intent.Kind {
		case IntentFetch, IntentSummarize, IntentSentiment, IntentHelp, IntentFreeform:
		default:
			t.Errorf("Classify(%q) produced unknown kind %q", input, intent.Kind)
		}
	}
}
