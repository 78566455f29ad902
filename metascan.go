// Package metascan batch-extracts page metadata from web pages: a
// structural page-type tag, geo meta tags, JSON-LD schema.org fields and
// speakable passages addressed by XPath.
//
// This package contains domain types, interfaces and the pure parts of the
// pipeline following Ben Johnson's Standard Package Layout. Implementations
// live in subdirectories named after their primary dependency (e.g.,
// goquery/, http/, sqlite/).
package metascan
