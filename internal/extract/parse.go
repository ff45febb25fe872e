package extract

import (
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strings"
)

// ErrNoParsableStructure is returned when the model response contains no
// recognizable JSON array after every recovery strategy has been tried.
var ErrNoParsableStructure = errors.New("no parsable slot array in model response")

// wrapperKeys are the object keys checked, in order, when the model wraps
// the array in an object instead of returning it at the top level.
var wrapperKeys = []string{"slots", "items", "result"}

var embeddedArrayRE = regexp.MustCompile(`\[[\s\S]*\]`)

// parseStrategy attempts one way of recovering an array of items from the
// response text. It reports definite success or failure; strategies are
// tried in a fixed order and the first success wins.
type parseStrategy struct {
	name string
	fn   func(string) ([]json.RawMessage, bool)
}

var strategies = []parseStrategy{
	{"strict-array", parseStrictArray},
	{"wrapped-object", parseWrappedObject},
	{"embedded-array-literal", parseEmbeddedArray},
}

// recoverItems strips markdown fencing and runs the strategy chain.
func recoverItems(content string) ([]json.RawMessage, string, error) {
	cleaned := stripCodeFence(strings.TrimSpace(content))
	for _, s := range strategies {
		if items, ok := s.fn(cleaned); ok {
			return items, s.name, nil
		}
	}
	return nil, "", ErrNoParsableStructure
}

func parseStrictArray(s string) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, false
	}
	return items, true
}

func parseWrappedObject(s string) ([]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}

	for _, key := range wrapperKeys {
		if raw, ok := obj[key]; ok {
			if items, ok := parseStrictArray(string(raw)); ok {
				return items, true
			}
		}
	}

	// Fall back to the first array-valued entry; keys are sorted so the
	// choice is deterministic.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if items, ok := parseStrictArray(string(obj[k])); ok {
			return items, true
		}
	}
	return nil, false
}

func parseEmbeddedArray(s string) ([]json.RawMessage, bool) {
	match := embeddedArrayRE.FindString(s)
	if match == "" {
		return nil, false
	}
	return parseStrictArray(match)
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
