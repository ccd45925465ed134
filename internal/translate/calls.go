package translate

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	putCallRe  = regexp.MustCompile(`^(\w+)\.put\(([^,]+),\s*(.+)\)$`)
	funcCallRe = regexp.MustCompile(`^(\w+)\s*\(([^)]*)\)`)
)

// turtleCalls maps Elan turtle-graphics procedure names to the emitted
// turtle instance. Order matters: first prefix match wins.
var turtleCalls = []struct {
	elan   string
	python string
}{
	{"clearScreen", "clearScreen"},
	{"turtle.penDown", "t.pendown"},
	{"turtle.penUp", "t.penup"},
	{"turtle.forward", "t.forward"},
	{"turtle.turnRight", "t.right"},
	{"turtle.turnLeft", "t.left"},
}

// translateCall emits a "call ..." statement. The call keyword itself has
// already been stripped.
func (e *emitter) translateCall(callPart string) {
	// a.put(i, v) is Elan's array element store
	if m := putCallRe.FindStringSubmatch(callPart); m != nil {
		index := convertExpression(strings.TrimSpace(m[2]))
		value := convertExpression(strings.TrimSpace(m[3]))
		e.addLine(m[1] + "[" + index + "] = " + value)
		return
	}

	for _, tc := range turtleCalls {
		if strings.HasPrefix(callPart, tc.elan+"(") {
			e.addLine(tc.python + callPart[len(tc.elan):])
			return
		}
	}

	// Procedures with out parameters return their values; the call site
	// becomes an assignment back into the argument variables.
	if m := funcCallRe.FindStringSubmatch(callPart); m != nil {
		name, argsStr := m[1], m[2]
		if positions, ok := e.procOutPositions[name]; ok && strings.TrimSpace(argsStr) != "" {
			args := lo.Map(strings.Split(argsStr, ","), func(arg string, _ int) string {
				return strings.TrimSpace(arg)
			})
			outArgs := lo.FilterMap(positions, func(pos int, _ int) (string, bool) {
				if pos < len(args) {
					return args[pos], true
				}
				return "", false
			})
			if len(outArgs) > 0 {
				e.addLine(strings.Join(outArgs, ", ") + " = " + callPart)
				return
			}
		}
	}

	e.addLine(callPart)
}

// convertParameters turns an Elan parameter list into a Python one and
// reports which parameters were declared out.
func convertParameters(params string) (string, []string) {
	if strings.TrimSpace(params) == "" {
		return "", nil
	}

	paramList := lo.Map(strings.Split(params, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})

	pythonParams := make([]string, 0, len(paramList))
	var outParams []string

	for _, param := range paramList {
		if rest, ok := strings.CutPrefix(param, "out "); ok {
			name, elanType, typed := cutTypeAnnotation(strings.TrimSpace(rest))
			if typed {
				pythonParams = append(pythonParams, name+": "+convertType(elanType))
			} else {
				pythonParams = append(pythonParams, name)
			}
			outParams = append(outParams, name)
			continue
		}

		if name, elanType, typed := cutTypeAnnotation(param); typed {
			pythonParams = append(pythonParams, name+": "+convertType(elanType))
		} else {
			pythonParams = append(pythonParams, param)
		}
	}

	return strings.Join(pythonParams, ", "), outParams
}

// cutTypeAnnotation splits "x as Int" into name and type.
func cutTypeAnnotation(param string) (string, string, bool) {
	name, elanType, found := strings.Cut(param, " as ")
	return strings.TrimSpace(name), strings.TrimSpace(elanType), found
}
