package jsonld

import (
	"strings"

	"github.com/fwojciec/metascan"
)

// Select picks the entity to display for a document.
//
// With no entities the status is SchemaNone and the returned entity is nil.
// Otherwise the first Article entity is chosen with SchemaMatch; failing
// that, the first entity is chosen with SchemaOther and a message listing
// the distinct types present.
func Select(entities []Entity) (metascan.SchemaStatus, Entity) {
	if len(entities) == 0 {
		return metascan.SchemaStatus{
			State:    metascan.SchemaNone,
			Severity: metascan.SeverityError,
			Message:  "No schema found.",
		}, nil
	}

	types := distinctTypes(entities)

	for _, e := range entities {
		if e.Is(metascan.ArticleType) {
			return metascan.SchemaStatus{
				State:    metascan.SchemaMatch,
				Severity: metascan.SeverityOK,
				Types:    types,
			}, e
		}
	}

	return metascan.SchemaStatus{
		State:    metascan.SchemaOther,
		Severity: metascan.SeverityWarning,
		Message:  "No Article schema found.\nOther schemas found: " + strings.Join(types, ", "),
		Types:    types,
	}, entities[0]
}

func distinctTypes(entities []Entity) []string {
	seen := make(map[string]bool)
	var types []string
	for _, e := range entities {
		t := e.Type()
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	return types
}
