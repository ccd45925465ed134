// Package translate maps Elan source text to an equivalent Python program.
//
// Translation is line oriented, the way Elan is written: an analysis pass
// collects what the emitted program needs up front (the turtle-graphics
// preamble, the out-parameter positions of every procedure), then an
// emission pass dispatches each statement to its Python form while
// tracking the current indentation level.
package translate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrEmptySource is returned when translation is attempted on blank input.
var ErrEmptySource = errors.New("source text is empty")

const (
	defaultIndent      = "    "
	defaultTurtleSpeed = 6
)

// Options tune the emitted Python. The zero value means defaults.
type Options struct {
	// Indent is the indentation unit of the emitted program.
	Indent string
	// TurtleSpeed is passed to turtle.speed() in the graphics preamble.
	TurtleSpeed int
}

// Translator converts Elan source text to Python source text. It is
// stateless between calls; Translate is a pure function of its input.
type Translator struct {
	opts Options
}

func NewTranslator(opts Options) *Translator {
	if opts.Indent == "" {
		opts.Indent = defaultIndent
	}
	if opts.TurtleSpeed <= 0 {
		opts.TurtleSpeed = defaultTurtleSpeed
	}
	return &Translator{opts: opts}
}

// Translate converts one Elan program to Python. The same input always
// yields the same output.
func (tr *Translator) Translate(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", ErrEmptySource
	}

	e := &emitter{
		opts:             tr.opts,
		procOutPositions: make(map[string][]int),
	}

	lines := strings.Split(strings.TrimSpace(source), "\n")

	e.analyze(lines)
	e.emitPreamble()

	for i, line := range lines {
		if err := e.translateLine(i+1, strings.TrimRight(line, " \t")); err != nil {
			return "", err
		}
	}

	return strings.Join(e.lines, "\n"), nil
}

// emitter holds the per-call state of one translation.
type emitter struct {
	opts Options

	lines  []string
	indent int

	needsTurtle bool

	// outParams are the out parameters of the procedure currently being
	// emitted; they become the return statement at its end.
	outParams []string

	// procOutPositions maps procedure name to the argument positions of
	// its out parameters, collected during analysis so call sites can be
	// rewritten into assignments.
	procOutPositions map[string][]int
}

var (
	procDefRe     = regexp.MustCompile(`^(procedure|function)\s+(\w+)\s*\((.*?)\)`)
	procDefBareRe = regexp.MustCompile(`^(procedure|function)\s+(\w+)`)

	variableSetRe = regexp.MustCompile(`^variable\s+(\w+)\s+set to\s+(.+)$`)
	setToRe       = regexp.MustCompile(`^set\s+(.+?)\s+to\s+(.+)$`)

	forStepRe  = regexp.MustCompile(`^for\s+(\w+)\s+from\s+(.+?)\s+to\s+(.+?)\s+step\s+(.+)$`)
	forRangeRe = regexp.MustCompile(`^for\s+(\w+)\s+from\s+(.+?)\s+to\s+(.+)$`)
	forInRe    = regexp.MustCompile(`^for\s+(\w+)\s+in\s+(.+)$`)
	eachRe     = regexp.MustCompile(`^each\s+(\w+)\s+in\s+(.+)$`)
	repeatRe   = regexp.MustCompile(`^repeat\s+(.+?)\s+times`)

	leadingWordRe = regexp.MustCompile(`^([A-Za-z]+)\b`)
)

// analyze scans the whole program before emission: whether turtle graphics
// are referenced, and which parameters of each procedure are out parameters.
func (e *emitter) analyze(lines []string) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "Turtle") || strings.Contains(line, "turtle.") {
			e.needsTurtle = true
		}
		e.analyzeProcedureSignature(line)
	}
}

func (e *emitter) analyzeProcedureSignature(line string) {
	m := procDefRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	name, params := m[2], m[3]
	if strings.TrimSpace(params) == "" {
		return
	}

	var outPositions []int
	for i, param := range strings.Split(params, ",") {
		if strings.HasPrefix(strings.TrimSpace(param), "out ") {
			outPositions = append(outPositions, i)
		}
	}
	if len(outPositions) > 0 {
		e.procOutPositions[name] = outPositions
	}
}

// emitPreamble writes the turtle-graphics setup when the program needs it.
func (e *emitter) emitPreamble() {
	if !e.needsTurtle {
		return
	}

	speed := "t.speed(" + strconv.Itoa(e.opts.TurtleSpeed) + ")"
	e.lines = append(e.lines,
		"import turtle",
		"import math",
		"",
		"# Initialize turtle graphics",
		"screen = turtle.Screen()",
		"t = turtle.Turtle()",
		speed,
		"",
		"def clearScreen():",
		e.opts.Indent+"screen.clear()",
		e.opts.Indent+"global t",
		e.opts.Indent+"t = turtle.Turtle()",
		e.opts.Indent+speed,
		"",
	)
}

func (e *emitter) translateLine(lineNo int, original string) error {
	line := strings.TrimSpace(original)

	// Blank lines and comments survive as-is
	if line == "" {
		e.addLine("")
		return nil
	}
	if strings.HasPrefix(line, "#") {
		e.addLine(line)
		return nil
	}

	switch {
	case line == "main":
		e.addLine("def main():")
		e.indent++
		return nil

	case line == "end main":
		e.indent--
		e.addLine("")
		e.addLine("if __name__ == '__main__':")
		e.addLineAt("main()", 1)
		if e.needsTurtle {
			e.addLineAt("screen.exitonclick()", 1)
		}
		return nil

	case strings.HasPrefix(line, "procedure ") || strings.HasPrefix(line, "function "):
		e.translateDefinition(line)
		return nil

	case strings.HasPrefix(line, "end procedure") || strings.HasPrefix(line, "end function"):
		if len(e.outParams) > 0 {
			e.addLine("return " + strings.Join(e.outParams, ", "))
			e.outParams = nil
		}
		e.indent--
		e.addLine("")
		return nil

	case strings.HasPrefix(line, "if "):
		condition := strings.TrimSuffix(strings.TrimSpace(line[3:]), " then")
		e.addLine("if " + convertCondition(condition) + ":")
		e.indent++
		return nil

	case line == "else" || strings.HasPrefix(line, "else if"):
		e.translateElse(line)
		return nil

	case strings.HasPrefix(line, "end if"):
		e.indent--
		return nil

	case strings.HasPrefix(line, "repeat ") && strings.Contains(line, "times"):
		if m := repeatRe.FindStringSubmatch(line); m != nil {
			e.addLine("for _ in range(" + m[1] + "):")
			e.indent++
		}
		return nil

	case line == "end repeat":
		e.indent--
		return nil

	case strings.HasPrefix(line, "while "):
		e.addLine("while " + convertCondition(strings.TrimSpace(line[6:])) + ":")
		e.indent++
		return nil

	case line == "end while":
		e.indent--
		return nil

	case strings.HasPrefix(line, "for "):
		return e.translateFor(lineNo, line)

	case line == "end for":
		e.indent--
		return nil

	case strings.HasPrefix(line, "each "):
		return e.translateEach(lineNo, line)

	case line == "end each":
		e.indent--
		return nil
	}

	// Assignments must be recognized before calls: "set result[i] to ..."
	// would otherwise look like an expression statement.
	if isAssignment(line) {
		return e.translateAssignment(lineNo, line)
	}

	if strings.HasPrefix(line, "call ") {
		e.translateCall(strings.TrimSpace(line[5:]))
		return nil
	}

	if strings.HasPrefix(line, "return") {
		e.translateReturn(line)
		return nil
	}

	if strings.HasPrefix(line, "println ") {
		content := convertExpression(strings.TrimSpace(line[8:]))
		e.addLine("print(" + content + ")")
		return nil
	}
	if strings.HasPrefix(line, "print ") {
		content := convertExpression(strings.TrimSpace(line[6:]))
		e.addLine("print(" + content + ", end='')")
		return nil
	}

	return e.passThrough(lineNo, line)
}

func (e *emitter) translateDefinition(line string) {
	if m := procDefRe.FindStringSubmatch(line); m != nil {
		pythonParams, outParams := convertParameters(m[3])
		e.addLine("def " + m[2] + "(" + pythonParams + "):")
		e.indent++
		e.outParams = outParams
		return
	}
	// Parameterless definition without parentheses
	if m := procDefBareRe.FindStringSubmatch(line); m != nil {
		e.addLine("def " + m[2] + "():")
		e.indent++
		e.outParams = nil
	}
}

func (e *emitter) translateElse(line string) {
	e.indent--
	if line == "else" {
		e.addLine("else:")
	} else {
		condition := strings.TrimSuffix(strings.TrimSpace(line[7:]), " then")
		e.addLine("elif " + convertCondition(condition) + ":")
	}
	e.indent++
}

func (e *emitter) translateFor(lineNo int, line string) error {
	if strings.Contains(line, " from ") && strings.Contains(line, " to ") {
		// Elan ranges are inclusive at both ends
		if strings.Contains(line, " step ") {
			if m := forStepRe.FindStringSubmatch(line); m != nil {
				start := convertExpression(strings.TrimSpace(m[2]))
				end := convertExpression(strings.TrimSpace(m[3]))
				step := convertExpression(strings.TrimSpace(m[4]))
				e.addLine("for " + m[1] + " in range(" + start + ", " + end + " + 1, " + step + "):")
				e.indent++
				return nil
			}
		} else if m := forRangeRe.FindStringSubmatch(line); m != nil {
			start := convertExpression(strings.TrimSpace(m[2]))
			end := convertExpression(strings.TrimSpace(m[3]))
			e.addLine("for " + m[1] + " in range(" + start + ", " + end + " + 1):")
			e.indent++
			return nil
		}
	} else if m := forInRe.FindStringSubmatch(line); m != nil {
		e.addLine("for " + m[1] + " in " + convertExpression(m[2]) + ":")
		e.indent++
		return nil
	}

	return &Error{Line: lineNo, Text: line, Construct: "for loop"}
}

func (e *emitter) translateEach(lineNo int, line string) error {
	m := eachRe.FindStringSubmatch(line)
	if m == nil {
		return &Error{Line: lineNo, Text: line, Construct: "each loop"}
	}
	e.addLine("for " + m[1] + " in " + convertExpression(m[2]) + ":")
	e.indent++
	return nil
}

func isAssignment(line string) bool {
	if strings.HasPrefix(line, "variable ") && strings.Contains(line, " set to ") {
		return true
	}
	if strings.HasPrefix(line, "set ") && strings.Contains(line, " to ") {
		return true
	}
	// A " = " inside a print argument is part of the printed string, not
	// an assignment.
	return strings.Contains(line, " = ") &&
		!strings.HasPrefix(line, "call ") &&
		!strings.HasPrefix(line, "print ") &&
		!strings.HasPrefix(line, "println ") &&
		!strings.Contains(line, "==") &&
		!strings.Contains(line, "!=")
}

func (e *emitter) translateAssignment(lineNo int, line string) error {
	if m := variableSetRe.FindStringSubmatch(line); m != nil {
		e.addLine(m[1] + " = " + convertExpression(m[2]))
		return nil
	}
	if m := setToRe.FindStringSubmatch(line); m != nil {
		e.addLine(strings.TrimSpace(m[1]) + " = " + convertExpression(strings.TrimSpace(m[2])))
		return nil
	}
	if name, value, found := strings.Cut(line, " = "); found {
		e.addLine(strings.TrimSpace(name) + " = " + convertExpression(strings.TrimSpace(value)))
		return nil
	}

	return &Error{Line: lineNo, Text: line, Construct: "assignment"}
}

func (e *emitter) translateReturn(line string) {
	if strings.TrimSpace(line) == "return" {
		e.addLine("return")
		return
	}
	value := strings.TrimSpace(line[6:])
	e.addLine("return " + convertExpression(value))
}

// passThrough emits an unrecognized line verbatim, except when it opens
// with a near-miss of a statement keyword, which is far more likely a
// typo than a deliberate expression statement.
func (e *emitter) passThrough(lineNo int, line string) error {
	if !strings.ContainsAny(line, "()=.[]") {
		if m := leadingWordRe.FindStringSubmatch(line); m != nil {
			if suggestion := suggestKeyword(m[1]); suggestion != "" {
				return &Error{Line: lineNo, Text: line, Construct: "statement", Suggestion: suggestion}
			}
		}
	}
	e.addLine(line)
	return nil
}

func (e *emitter) addLine(line string) {
	e.addLineAt(line, e.indent)
}

func (e *emitter) addLineAt(line string, indent int) {
	if strings.TrimSpace(line) == "" {
		e.lines = append(e.lines, "")
		return
	}
	// A stray end line can close more blocks than were opened; emit at
	// column zero rather than panicking on a negative repeat count.
	if indent < 0 {
		indent = 0
	}
	e.lines = append(e.lines, strings.Repeat(e.opts.Indent, indent)+line)
}
