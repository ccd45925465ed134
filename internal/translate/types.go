package translate

import "strings"

var scalarTypes = map[string]string{
	"Int":     "int",
	"Float":   "float",
	"Bool":    "bool",
	"Boolean": "bool",
	"String":  "str",
	"Str":     "str",
}

// convertType maps an Elan type annotation to its Python spelling.
// Unknown types pass through unchanged.
func convertType(elanType string) string {
	elanType = strings.TrimSpace(elanType)
	if elanType == "" {
		return ""
	}

	if pyType, ok := scalarTypes[elanType]; ok {
		return pyType
	}

	// Array<of Int> and List<of Int> both become List[int]
	if inner, ok := genericInner(elanType, "Array<of "); ok {
		return "List[" + convertType(inner) + "]"
	}
	if inner, ok := genericInner(elanType, "List<of "); ok {
		return "List[" + convertType(inner) + "]"
	}

	// Dictionary<of String, Int> becomes Dict[str, int]
	if inner, ok := genericInner(elanType, "Dictionary<of "); ok {
		if key, value, found := strings.Cut(inner, ","); found {
			return "Dict[" + convertType(key) + ", " + convertType(value) + "]"
		}
	}

	return elanType
}

func genericInner(elanType, prefix string) (string, bool) {
	if strings.HasPrefix(elanType, prefix) && strings.HasSuffix(elanType, ">") {
		return elanType[len(prefix) : len(elanType)-1], true
	}
	return "", false
}
