package metascan

import (
	"context"
	"fmt"
	"strings"
)

// NotAvailable is the sentinel used in place of a missing or unusable value.
const NotAvailable = "N/A"

// NoSpeakableData is the display string for a record without speakable items.
const NoSpeakableData = "No Speakable Data"

// SpeakableItem is one speakable XPath declared in JSON-LD and its
// evaluated text.
type SpeakableItem struct {
	Type  string `json:"type"`
	XPath string `json:"xpath"`
	Value string `json:"value"`
}

// PageRecord is the extraction result for one successfully processed URL.
type PageRecord struct {
	URL          string          `json:"url"`
	PageType     PageType        `json:"pageType"`
	Element      string          `json:"element,omitempty"`
	GeoPlaceName string          `json:"geoPlaceName"`
	GeoRegion    string          `json:"geoRegion"`
	Speakable    []SpeakableItem `json:"speakable"`
	Schema       SchemaStatus    `json:"schema"`
	Fields       *ArticleFields  `json:"fields"` // nil when no schema was found
	ContentHash  string          `json:"contentHash"`
}

// SpeakableSummary returns the record's speakable items as one display string.
func (r *PageRecord) SpeakableSummary() string {
	return FormatSpeakable(r.Speakable)
}

// PageError reports a URL that failed at any pipeline stage.
type PageError struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// BatchResult holds the outcome of one batch, both slices in input order.
type BatchResult struct {
	Records []*PageRecord `json:"records"`
	Errors  []*PageError  `json:"errors"`
}

// FormatSpeakable joins speakable items into a single display string.
func FormatSpeakable(items []SpeakableItem) string {
	if len(items) == 0 {
		return NoSpeakableData
	}

	parts := make([]string, 0, len(items))
	for _, s := range items {
		parts = append(parts, fmt.Sprintf("Type: %s, XPath: %s, Value: %s", s.Type, s.XPath, s.Value))
	}
	return strings.Join(parts, " | ")
}

// BatchRunner runs the extraction pipeline over raw batch input.
type BatchRunner interface {
	// RunBatch splits, validates and normalizes input, then processes
	// every URL. Returns a *ValidationError without doing any network I/O
	// when a line is not a plausible URL.
	RunBatch(ctx context.Context, input string) (*BatchResult, error)
}

// ScanProgress reports progress as URLs settle.
type ScanProgress struct {
	URL       string
	Completed int
	Total     int
	Error     error
}

// ScanProgressFunc is called as URLs settle.
type ScanProgressFunc func(ScanProgress)
