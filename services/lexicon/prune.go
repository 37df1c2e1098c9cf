package lexicon

// prunedStrings are the placeholder spellings the appraisal site and
// the tolerant parsers leave behind.
var prunedStrings = map[string]bool{
	"":     true,
	"N/A":  true,
	"None": true,
	"null": true,
}

// Prune walks a JSON-shaped value (maps, slices, scalars) and removes
// nils, placeholder strings, empty maps and empty lists, recursively.
// A map that empties out comes back as nil so the parent drops it
// too; a fully collapsed graph therefore prunes to nil. Numeric zero
// and booleans are kept.
func Prune(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := map[string]any{}
		for key, item := range val {
			cleaned := Prune(item)
			if droppable(cleaned) {
				continue
			}
			out[key] = cleaned
		}
		if len(out) == 0 {
			return nil
		}
		return out

	case []any:
		out := []any{}
		for _, item := range val {
			cleaned := Prune(item)
			if droppable(cleaned) {
				continue
			}
			out = append(out, cleaned)
		}
		return out

	case string:
		if prunedStrings[val] {
			return nil
		}
		return val

	default:
		return v
	}
}

func droppable(v any) bool {
	if v == nil {
		return true
	}
	if list, ok := v.([]any); ok {
		return len(list) == 0
	}
	return false
}
