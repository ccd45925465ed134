package translate

import (
	"regexp"
	"strings"
)

var (
	asArrayRe    = regexp.MustCompile(`(\[[^\]]*\])\.asArray\(\)`)
	newArrayRe   = regexp.MustCompile(`new Array<[^>]*>\(([^,]+),\s*([^)]+)\)`)
	emptyArrayRe = regexp.MustCompile(`empty Array<[^>]*>`)

	// Slice ranges: a[1..] / a[..5] / a[1..5] map to Python slices
	sliceOpenEndRe   = regexp.MustCompile(`(\w+(?:\[[^\]]*\])*)\[([^.\]]*)\.\.\]`)
	sliceOpenStartRe = regexp.MustCompile(`(\w+(?:\[[^\]]*\])*)\[\.\.([^.\]]*)\]`)
	sliceRangeRe     = regexp.MustCompile(`(\w+(?:\[[^\]]*\])*)\[([^.\]]*)\.\.([^.\]]*)\]`)

	// Integer division: the operands may be calls, index expressions or
	// dotted chains, so the operand pattern is deliberately permissive.
	divOperand = `\w+(?:\([^)]*\))?(?:\[[^\]]*\])?(?:\.\w+(?:\([^)]*\))?)*`
	divRe      = regexp.MustCompile(`\b(` + divOperand + `)\s+div\s+(` + divOperand + `)`)

	trueRe  = regexp.MustCompile(`\btrue\b`)
	falseRe = regexp.MustCompile(`\bfalse\b`)
)

// convertExpression rewrites an Elan expression into Python.
func convertExpression(expr string) string {
	if expr == "" {
		return expr
	}

	// String concatenation
	expr = strings.ReplaceAll(expr, " & ", " + ")

	// [1, 2, 3].asArray() is already a Python list literal
	expr = asArrayRe.ReplaceAllString(expr, "$1")

	// new Array<of Int>(n, v) -> (n) * [v]
	expr = newArrayRe.ReplaceAllString(expr, "($1) * [$2]")

	// empty Array<of Int> -> []
	expr = emptyArrayRe.ReplaceAllString(expr, "[]")

	// Slice syntax; open-ended forms first so a[1..] is not half-matched
	expr = sliceOpenEndRe.ReplaceAllString(expr, "$1[$2:]")
	expr = sliceOpenStartRe.ReplaceAllString(expr, "$1[:$2]")
	expr = sliceRangeRe.ReplaceAllString(expr, "$1[$2:$3]")

	expr = divRe.ReplaceAllString(expr, "$1 // $2")
	expr = strings.ReplaceAll(expr, " mod ", " % ")

	expr = trueRe.ReplaceAllString(expr, "True")
	expr = falseRe.ReplaceAllString(expr, "False")

	return expr
}

// convertCondition rewrites an Elan boolean condition into Python. Elan
// spells equality "is" or "=" and inequality "<>".
func convertCondition(condition string) string {
	condition = strings.ReplaceAll(condition, " is ", " == ")
	condition = strings.ReplaceAll(condition, " = ", " == ")
	condition = strings.ReplaceAll(condition, " <> ", " != ")

	return convertExpression(condition)
}
