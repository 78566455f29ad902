package metascan

// Document is a parsed HTML page. A Document belongs to a single pipeline
// invocation and is discarded once the page's record is produced.
type Document interface {
	// Exists reports whether any element matches the CSS selector.
	Exists(selector string) bool

	// Attr returns the named attribute of the first element matching the
	// CSS selector. The bool result is false if no element matches or the
	// attribute is missing.
	Attr(selector, name string) (string, bool)

	// Texts returns the text content of every element matching the CSS
	// selector, in document order.
	Texts(selector string) []string

	// XPath evaluates expr against the whole document and returns the text
	// content of every matched node in document order.
	// Returns an error if the expression cannot be compiled or evaluated.
	XPath(expr string) ([]string, error)
}

// Parser builds a Document from raw HTML.
type Parser interface {
	// Parse returns an EPARSE error if the input cannot be interpreted as HTML.
	Parse(html string) (Document, error)
}
