package metascan

// SchemaState classifies the JSON-LD evidence found in a document.
type SchemaState string

// SchemaState values.
const (
	SchemaNone  SchemaState = "none"  // no typed JSON-LD entity
	SchemaOther SchemaState = "other" // entities present, none of the expected type
	SchemaMatch SchemaState = "match" // an entity of the expected type
)

// Severity tags a SchemaStatus for display.
type Severity string

// Severity values.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityOK      Severity = "ok"
)

// ArticleType is the schema.org type the extractor looks for.
const ArticleType = "Article"

// SchemaStatus describes which JSON-LD entity was chosen for a document.
type SchemaStatus struct {
	State    SchemaState `json:"state"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message,omitempty"`
	Types    []string    `json:"types,omitempty"` // distinct @type values present
}

// Author is the normalized author of a schema entity.
type Author struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Publisher is the normalized publisher of a schema entity.
type Publisher struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// ArticleFields is the flat record derived from a chosen JSON-LD entity.
// Every field holds NotAvailable when the source value is absent or unusable.
type ArticleFields struct {
	SchemaType       string    `json:"schemaType"`
	Headline         string    `json:"headline"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	DatePublished    string    `json:"datePublished"`
	DateModified     string    `json:"dateModified"`
	MainEntityOfPage string    `json:"mainEntityOfPage"`
	ImageURL         string    `json:"imageUrl"`
	Author           Author    `json:"author"`
	Publisher        Publisher `json:"publisher"`
}
