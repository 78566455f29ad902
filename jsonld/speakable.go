package jsonld

import (
	"log/slog"
	"strings"

	"github.com/fwojciec/metascan"
)

// UnknownSpeakableType is used when a speakable declaration has no @type.
const UnknownSpeakableType = "Unknown Type"

// Speakables evaluates every speakable XPath declared by the entities
// against doc, one item per (entity, expression) pair in encounter order.
// Matched node texts are joined with ", ". An expression that fails to
// evaluate yields an empty value for that item only; the failure is logged
// when logger is non-nil.
func Speakables(entities []Entity, doc metascan.Document, logger *slog.Logger) []metascan.SpeakableItem {
	var items []metascan.SpeakableItem

	for _, e := range entities {
		for _, decl := range declarations(e["speakable"]) {
			typ, _ := decl["@type"].(string)
			if typ == "" {
				typ = UnknownSpeakableType
			}

			for _, expr := range xpaths(decl["xpath"]) {
				texts, err := doc.XPath(expr)
				if err != nil {
					if logger != nil {
						logger.Debug("speakable xpath", "xpath", expr, "err", err)
					}
					texts = nil
				}
				items = append(items, metascan.SpeakableItem{
					Type:  typ,
					XPath: expr,
					Value: strings.Join(texts, ", "),
				})
			}
		}
	}

	return items
}

// declarations returns speakable objects; a speakable may be one object or
// an array of them.
func declarations(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		var out []map[string]any
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// xpaths returns the string expressions of an xpath value, which may be an
// array or a single string.
func xpaths(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
