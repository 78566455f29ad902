package metascan

// PageType tags a document with its structural page kind.
type PageType string

// Page types assigned by the app rule set.
const (
	PageProduct PageType = "PRO"
	PageArticle PageType = "ART"
	PageCopy    PageType = "COP"
	PageNone    PageType = "N/A"
)

// Page types assigned by the nutrition rule set. ART is shared with the
// app rule set.
const (
	PageRecipe  PageType = "REC"
	PageLanding PageType = "LAN"
	PageUnknown PageType = "UNK"
)

// Variant names a classifier configuration.
type Variant string

// Supported classifier variants.
const (
	VariantApp       Variant = "app"
	VariantNutrition Variant = "nutrition"
)

// ParseVariant returns the Variant named by s.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantApp, VariantNutrition:
		return v, nil
	}
	return "", Errorf(EINVALID, "unknown variant %q", s)
}

// Classification is the outcome of classifying a document.
type Classification struct {
	Type    PageType
	Element string // descriptor of the matched element, empty if none
}

// Classifier assigns exactly one page type to a document.
type Classifier interface {
	Classify(doc Document) Classification
}

// Rule tags documents containing an element that matches Selector.
type Rule struct {
	Selector string
	Type     PageType
	Element  string
}

// RuleClassifier tests rules in order and returns the first match.
// Order matters: a product page may also contain a generic <article>, and
// only the most specific rule must win.
type RuleClassifier struct {
	Rules    []Rule
	Fallback PageType
}

// Classify returns the tag of the first matching rule or the fallback.
func (c *RuleClassifier) Classify(doc Document) Classification {
	for _, r := range c.Rules {
		if doc.Exists(r.Selector) {
			return Classification{Type: r.Type, Element: r.Element}
		}
	}
	return Classification{Type: c.Fallback}
}

// AppRules classifies product, internal-article and generic article pages.
var AppRules = []Rule{
	{Selector: "section.internal-products", Type: PageProduct},
	{Selector: "div.container.article-internal", Type: PageArticle},
	{Selector: "article", Type: PageCopy},
}

// NutritionRules classifies content-format articles, recipes and landings.
var NutritionRules = []Rule{
	{
		Selector: "article.content-format--article.content_expertize--standard.content-source--standard",
		Type:     PageArticle,
		Element:  "article.content-format--article",
	},
	{
		Selector: "article.content-format--.content-source--",
		Type:     PageRecipe,
		Element:  "article.content-format--",
	},
	{
		Selector: "article div.paragraph.full-width.paragraph-hero.hero-without-image",
		Type:     PageLanding,
		Element:  "article > div.paragraph-hero",
	},
}

// ClassifierFor returns the classifier configured for variant.
// Unknown variants get the app rule set.
func ClassifierFor(variant Variant) *RuleClassifier {
	if variant == VariantNutrition {
		return &RuleClassifier{Rules: NutritionRules, Fallback: PageUnknown}
	}
	return &RuleClassifier{Rules: AppRules, Fallback: PageNone}
}
