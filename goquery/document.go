// Package goquery provides the HTML implementation of metascan.Document.
// CSS selectors are answered by goquery and XPath expressions by
// htmlquery, both over the same parsed node tree.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/fwojciec/metascan"
	"golang.org/x/net/html"
)

// Ensure Parser implements metascan.Parser at compile time.
var _ metascan.Parser = (*Parser)(nil)

// Ensure Document implements metascan.Document at compile time.
var _ metascan.Document = (*Document)(nil)

// Parser builds Documents from raw HTML.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses rawHTML into a Document.
// Returns EPARSE for empty input or input the HTML tokenizer rejects.
func (p *Parser) Parse(rawHTML string) (metascan.Document, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, metascan.Errorf(metascan.EPARSE, "empty HTML document")
	}

	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, metascan.Errorf(metascan.EPARSE, "failed to parse HTML: %v", err)
	}

	return &Document{
		root: root,
		doc:  goquery.NewDocumentFromNode(root),
	}, nil
}

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
	doc  *goquery.Document
}

// Exists reports whether any element matches the selector.
// Invalid selectors match nothing.
func (d *Document) Exists(selector string) bool {
	return d.doc.Find(selector).Length() > 0
}

// Attr returns the named attribute of the first element matching the selector.
func (d *Document) Attr(selector, name string) (string, bool) {
	return d.doc.Find(selector).First().Attr(name)
}

// Texts returns the text content of every matching element.
func (d *Document) Texts(selector string) []string {
	sel := d.doc.Find(selector)
	texts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts
}

// XPath returns the text content of every node matched by expr, in
// document order. Expressions that evaluate to a number, string or boolean
// are rejected with EPARSE.
func (d *Document) XPath(expr string) (texts []string, err error) {
	// The xpath engine panics on some expressions that compile but cannot
	// be evaluated.
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, metascan.Errorf(metascan.EPARSE, "xpath %q: %v", expr, r)
		}
	}()

	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, metascan.Errorf(metascan.EPARSE, "invalid xpath %q: %v", expr, err)
	}

	iter, ok := compiled.Evaluate(htmlquery.CreateXPathNavigator(d.root)).(*xpath.NodeIterator)
	if !ok {
		return nil, metascan.Errorf(metascan.EPARSE, "xpath %q does not select nodes", expr)
	}

	seen := make(map[*html.Node]bool)
	for iter.MoveNext() {
		n := iter.Current().(*htmlquery.NodeNavigator).Current()
		if seen[n] {
			continue
		}
		seen[n] = true
		texts = append(texts, htmlquery.InnerText(n))
	}
	if texts == nil {
		texts = []string{}
	}
	return texts, nil
}
