package mock

import "github.com/fwojciec/metascan"

var _ metascan.Parser = (*Parser)(nil)

// Parser is a mock implementation of metascan.Parser.
type Parser struct {
	ParseFn func(html string) (metascan.Document, error)
}

func (p *Parser) Parse(html string) (metascan.Document, error) {
	return p.ParseFn(html)
}

var _ metascan.Document = (*Document)(nil)

// Document is a mock implementation of metascan.Document.
type Document struct {
	ExistsFn func(selector string) bool
	AttrFn   func(selector, name string) (string, bool)
	TextsFn  func(selector string) []string
	XPathFn  func(expr string) ([]string, error)
}

func (d *Document) Exists(selector string) bool {
	return d.ExistsFn(selector)
}

func (d *Document) Attr(selector, name string) (string, bool) {
	return d.AttrFn(selector, name)
}

func (d *Document) Texts(selector string) []string {
	return d.TextsFn(selector)
}

func (d *Document) XPath(expr string) ([]string, error) {
	return d.XPathFn(expr)
}

var _ metascan.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of metascan.Classifier.
type Classifier struct {
	ClassifyFn func(doc metascan.Document) metascan.Classification
}

func (c *Classifier) Classify(doc metascan.Document) metascan.Classification {
	return c.ClassifyFn(doc)
}
