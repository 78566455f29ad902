package jsonld

import (
	"log/slog"

	"github.com/fwojciec/metascan"
)

// Result is the structured data extracted from one document.
type Result struct {
	Schema    metascan.SchemaStatus
	Fields    *metascan.ArticleFields
	Speakable []metascan.SpeakableItem
}

// Extract runs discovery, selection, normalization and speakable
// evaluation against doc. Invalid blocks and failing expressions degrade
// to absent data and are logged when logger is non-nil.
func Extract(doc metascan.Document, logger *slog.Logger) *Result {
	entities, errs := Decode(doc.Texts(ScriptSelector))
	if logger != nil {
		for _, err := range errs {
			logger.Debug("skipping JSON-LD block", "err", metascan.ErrorMessage(err))
		}
	}

	status, chosen := Select(entities)

	return &Result{
		Schema:    status,
		Fields:    Normalize(chosen),
		Speakable: Speakables(entities, doc, logger),
	}
}
