// Package jsonld discovers schema.org entities in JSON-LD script blocks and
// normalizes them into flat records.
package jsonld

import (
	"strconv"
	"strings"

	"github.com/fwojciec/metascan"
	"github.com/goccy/go-json"
)

// ScriptSelector matches the script blocks that carry JSON-LD.
const ScriptSelector = "script[type='application/ld+json']"

// Entity is one JSON-LD object. Values keep the shapes produced by JSON
// decoding: string, float64, bool, nil, []any and map[string]any.
type Entity map[string]any

// Decode parses every block and returns the typed entities in encounter
// order. Objects with an @graph array contribute the graph's elements,
// top-level arrays contribute their elements, and anything else is taken
// as is. Entities without a non-empty @type are dropped.
//
// A block that is not valid JSON is skipped; one EPARSE error per skipped
// block is returned alongside the entities.
func Decode(blocks []string) ([]Entity, []error) {
	var entities []Entity
	var errs []error

	for i, block := range blocks {
		var v any
		if err := json.Unmarshal([]byte(strings.TrimSpace(block)), &v); err != nil {
			errs = append(errs, metascan.Errorf(metascan.EPARSE, "JSON-LD block %d: %v", i, err))
			continue
		}
		for _, c := range candidates(v) {
			if len(c.Types()) > 0 {
				entities = append(entities, c)
			}
		}
	}

	return entities, errs
}

// candidates flattens one decoded block into candidate objects.
func candidates(v any) []Entity {
	switch t := v.(type) {
	case map[string]any:
		if graph, ok := t["@graph"].([]any); ok {
			return objects(graph)
		}
		return []Entity{t}
	case []any:
		var out []Entity
		for _, item := range t {
			out = append(out, candidates(item)...)
		}
		return out
	}
	return nil
}

func objects(items []any) []Entity {
	out := make([]Entity, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Types returns the entity's non-empty @type values. A string @type yields
// one value; an array yields its string elements.
func (e Entity) Types() []string {
	switch t := e["@type"].(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Type returns the entity's @type values joined for display.
func (e Entity) Type() string {
	return strings.Join(e.Types(), ", ")
}

// Is reports whether typ is one of the entity's @type values.
func (e Entity) Is(typ string) bool {
	for _, t := range e.Types() {
		if t == typ {
			return true
		}
	}
	return false
}

// scalar renders string, number and bool values. The bool result is false
// for empty strings and non-scalar values.
func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// first returns the first element of an array value, or v itself.
func first(v any) any {
	if a, ok := v.([]any); ok {
		if len(a) == 0 {
			return nil
		}
		return a[0]
	}
	return v
}

// orNA returns s, or the sentinel when s is empty.
func orNA(s string) string {
	if s == "" {
		return metascan.NotAvailable
	}
	return s
}
