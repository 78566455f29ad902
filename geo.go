package metascan

// Geo holds the geo meta tags of a page.
type Geo struct {
	PlaceName string
	Region    string
}

// GeoMeta reads the geo.placename and geo.region meta tags. Missing or
// empty tags yield NotAvailable.
func GeoMeta(doc Document) Geo {
	return Geo{
		PlaceName: metaContent(doc, "geo.placename"),
		Region:    metaContent(doc, "geo.region"),
	}
}

func metaContent(doc Document, name string) string {
	content, ok := doc.Attr("meta[name='"+name+"']", "content")
	if !ok || content == "" {
		return NotAvailable
	}
	return content
}
