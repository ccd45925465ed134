package translate

import (
	"fmt"

	"github.com/sahilm/fuzzy"
)

// statementKeywords are the words that may legally open an Elan statement.
// Used to offer a suggestion when a line opens with a near-miss.
var statementKeywords = []string{
	"main",
	"end",
	"procedure",
	"function",
	"if",
	"else",
	"while",
	"repeat",
	"for",
	"each",
	"variable",
	"set",
	"call",
	"return",
	"print",
	"println",
}

// Error describes a construct that could not be mapped to Python. Line is
// 1-based within the trimmed source.
type Error struct {
	Line       int
	Text       string
	Construct  string
	Suggestion string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("line %d: cannot translate %s: %q", e.Line, e.Construct, e.Text)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// suggestKeyword returns the closest statement keyword to word, or "" when
// nothing matches. Exact keywords yield no suggestion.
func suggestKeyword(word string) string {
	if word == "" {
		return ""
	}
	for _, kw := range statementKeywords {
		if word == kw {
			return ""
		}
	}
	matches := fuzzy.Find(word, statementKeywords)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
