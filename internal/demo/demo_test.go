package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elan-tools/elan2py/internal/translate"
)

func TestProgramTranslates(t *testing.T) {
	source := Program()
	require.NotEmpty(t, source)

	out, err := translate.NewTranslator(translate.Options{}).Translate(source)
	require.NoError(t, err)

	assert.Contains(t, out, "def f(x: int, y: int):")
	assert.Contains(t, out, "    return x, y")
	assert.Contains(t, out, "def add_lists(a: List[int], b: List[int], result: List[int]):")
	assert.Contains(t, out, "u, v = f(u, v)")
	assert.Contains(t, out, "result = add_lists(arr1, arr2, result)")
	assert.Contains(t, out, "if __name__ == '__main__':")
}
