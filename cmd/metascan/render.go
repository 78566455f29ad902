package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/metascan"
	"github.com/goccy/go-json"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResult prints one block per record followed by the failed URLs.
func writeResult(w io.Writer, result *metascan.BatchResult) {
	for i, r := range result.Records {
		fmt.Fprintf(w, "%d. %s\n", i+1, r.URL)

		pageType := string(r.PageType)
		if r.Element != "" {
			pageType += " (" + r.Element + ")"
		}
		fmt.Fprintf(w, "   type:      %s\n", pageType)
		fmt.Fprintf(w, "   geo:       %s / %s\n", r.GeoPlaceName, r.GeoRegion)
		fmt.Fprintf(w, "   schema:    %s [%s]\n", r.Schema.State, r.Schema.Severity)
		if r.Schema.Message != "" {
			fmt.Fprintf(w, "              %s\n", r.Schema.Message)
		}
		if f := r.Fields; f != nil {
			fmt.Fprintf(w, "   headline:  %s\n", f.Headline)
			fmt.Fprintf(w, "   published: %s  modified: %s\n", f.DatePublished, f.DateModified)
			fmt.Fprintf(w, "   author:    %s (%s)\n", f.Author.Name, f.Author.Type)
			fmt.Fprintf(w, "   publisher: %s (%s)\n", f.Publisher.Name, f.Publisher.Type)
		}
		fmt.Fprintf(w, "   speakable: %s\n", r.SpeakableSummary())
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\nFailed (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.URL, e.Message)
		}
	}

	fmt.Fprintf(w, "\n%d records, %d errors\n", len(result.Records), len(result.Errors))
}
