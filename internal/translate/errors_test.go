package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestKeyword(t *testing.T) {
	assert.Empty(t, suggestKeyword(""), "empty word has no suggestion")
	assert.Empty(t, suggestKeyword("print"), "exact keywords need no suggestion")
	assert.Empty(t, suggestKeyword("zzz"), "nothing close")
	assert.NotEmpty(t, suggestKeyword("prnt"))
	assert.NotEmpty(t, suggestKeyword("repet"))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Line: 7, Text: "for from until", Construct: "for loop"}
	assert.Equal(t, `line 7: cannot translate for loop: "for from until"`, err.Error())

	err = &Error{Line: 2, Text: `prnt "x"`, Construct: "statement", Suggestion: "print"}
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), `did you mean "print"?`)
}
