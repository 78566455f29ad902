package jsonld

import "github.com/fwojciec/metascan"

// Normalize flattens an entity into ArticleFields. Returns nil for a nil
// entity. Missing or unusable values become metascan.NotAvailable.
func Normalize(e Entity) *metascan.ArticleFields {
	if e == nil {
		return nil
	}

	description := text(e["description"])
	if description == "" {
		description = text(e["about"])
	}

	return &metascan.ArticleFields{
		SchemaType:       orNA(e.Type()),
		Headline:         orNA(text(e["headline"])),
		Name:             orNA(text(e["name"])),
		Description:      orNA(description),
		DatePublished:    orNA(text(e["datePublished"])),
		DateModified:     orNA(text(e["dateModified"])),
		MainEntityOfPage: orNA(ref(e["mainEntityOfPage"])),
		ImageURL:         orNA(ref(e["image"])),
		Author:           author(e["author"]),
		Publisher:        publisher(e["publisher"]),
	}
}

// text renders a scalar, or the name of a named object.
func text(v any) string {
	v = first(v)
	if s, ok := scalar(v); ok {
		return s
	}
	if m, ok := v.(map[string]any); ok {
		s, _ := scalar(m["name"])
		return s
	}
	return ""
}

// ref renders a URL-like value: a string used directly, or an object's url
// (falling back to its @id).
func ref(v any) string {
	v = first(v)
	if s, ok := v.(string); ok {
		return s
	}
	if m, ok := v.(map[string]any); ok {
		if s, ok := m["url"].(string); ok && s != "" {
			return s
		}
		if s, ok := m["@id"].(string); ok {
			return s
		}
	}
	return ""
}

// party is the string-or-object shape shared by author and publisher.
type party struct {
	typ  string
	name string
	obj  map[string]any
}

func resolveParty(v any) party {
	switch t := first(v).(type) {
	case string:
		if t == "" {
			return party{}
		}
		return party{typ: "String", name: t}
	case map[string]any:
		typ := Entity(t).Type()
		name, _ := scalar(t["name"])
		return party{typ: typ, name: name, obj: t}
	}
	return party{}
}

func author(v any) metascan.Author {
	p := resolveParty(v)
	var url string
	if p.obj != nil {
		url, _ = p.obj["url"].(string)
	}
	return metascan.Author{
		Type: orNA(p.typ),
		Name: orNA(p.name),
		URL:  orNA(url),
	}
}

func publisher(v any) metascan.Publisher {
	p := resolveParty(v)
	var logo string
	if p.obj != nil {
		logo = ref(p.obj["logo"])
	}
	return metascan.Publisher{
		Type: orNA(p.typ),
		Name: orNA(p.name),
		Logo: orNA(logo),
	}
}
