// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paw-tracker pipeline.
// See docs/ARCHITECTURE.md § Data Structures.
package types

// Record is an immutable snapshot of one entry returned by the Scopus
// Search API. Records exist only between fetch and merge; the merge stage
// maps surviving Records into store Rows and discards the rest.
type Record struct {
	// EID is the Scopus electronic identifier, the stable globally unique
	// key for an entry (e.g. "2-s2.0-85123456789").
	EID string `json:"eid" yaml:"eid"`

	// DOI is the document object identifier. May be empty, and is not
	// guaranteed unique across near-duplicate entries.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Title is the entry title as returned by Scopus.
	Title string `json:"title" yaml:"title"`

	// Authors is the semicolon-joined author list in source order.
	Authors string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Venue is the publication name (journal, proceedings).
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// DocType is the Scopus document type description (e.g. "Article").
	DocType string `json:"doc_type,omitempty" yaml:"doc_type,omitempty"`

	// CitedBy is the citation count at fetch time.
	CitedBy int `json:"cited_by" yaml:"cited_by"`

	// CoverDate is the publication cover date as an ISO-ish string
	// ("2024-03-01"). Scopus sometimes returns partial dates.
	CoverDate string `json:"cover_date,omitempty" yaml:"cover_date,omitempty"`

	// Abstract is the entry abstract, when the API view includes it.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Keywords is the author-keyword list as Scopus returns it
	// (pipe-separated).
	Keywords string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Year returns the four-digit publication year from CoverDate, or "" when
// the cover date is missing or too short to contain one.
func (r Record) Year() string {
	if len(r.CoverDate) < 4 {
		return ""
	}
	return r.CoverDate[:4]
}
