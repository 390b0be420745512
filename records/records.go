// Package records defines the structured publication records that are
// translated as JSON arrays (literature, outlines, songs and tips) and the
// strict ingestion that turns uploaded JSON into validated slices.
//
// Each record type has its own identity:
//
//	LiteratureItem  unique by ID
//	Outline         unique by Number
//	Song            unique by Number
//	Tip             identified by its position in the array
package records

import (
	"fmt"
	"strings"
)

// LiteratureItem is one entry of the literature listing.
type LiteratureItem struct {
	ID           int    `json:"id"`
	CategoryName string `json:"categoryName"`
	ItemNumber   string `json:"itemNumber"`
	Symbol       string `json:"symbol"`
	Title        string `json:"title"`
}

// Outline is a public talk outline.
type Outline struct {
	Number  int    `json:"number"`
	Title   string `json:"title,omitempty"`
	Updated string `json:"updated"`
	Notes   string `json:"notes,omitempty"`
}

// Song is a songbook entry. Number is a string because some songs carry
// letter suffixes.
type Song struct {
	Number string `json:"number"`
	Title  string `json:"title"`
}

// Tip is a help tip shown in the program.
type Tip struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
	URL     string `json:"url"`
}

// Group names one structured record set.
type Group string

const (
	Literature Group = "literature"
	Outlines   Group = "outlines"
	Songs      Group = "songs"
	Tips       Group = "tips"
)

// Groups lists every record group in display order.
var Groups = []Group{Literature, Outlines, Songs, Tips}

// ParseGroup resolves a group name, case-insensitively.
func ParseGroup(s string) (Group, error) {
	g := Group(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Groups {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown record group %q (valid: literature, outlines, songs, tips)", s)
}

// Bundle carries one slice per group. A nil slice means "not provided".
type Bundle struct {
	Literature []LiteratureItem `json:"literature,omitempty"`
	Outlines   []Outline        `json:"outlines,omitempty"`
	Songs      []Song           `json:"songs,omitempty"`
	Tips       []Tip            `json:"tips,omitempty"`
}

// Has reports whether the bundle provides a value for g.
func (b Bundle) Has(g Group) bool {
	switch g {
	case Literature:
		return b.Literature != nil
	case Outlines:
		return b.Outlines != nil
	case Songs:
		return b.Songs != nil
	case Tips:
		return b.Tips != nil
	}
	return false
}

// Only returns a bundle holding just group g of b.
func (b Bundle) Only(g Group) Bundle {
	var out Bundle
	switch g {
	case Literature:
		out.Literature = b.Literature
	case Outlines:
		out.Outlines = b.Outlines
	case Songs:
		out.Songs = b.Songs
	case Tips:
		out.Tips = b.Tips
	}
	return out
}

// Len returns the number of records provided for g.
func (b Bundle) Len(g Group) int {
	switch g {
	case Literature:
		return len(b.Literature)
	case Outlines:
		return len(b.Outlines)
	case Songs:
		return len(b.Songs)
	case Tips:
		return len(b.Tips)
	}
	return 0
}

// Value returns the slice for g as an untyped value, for JSON export.
func (b Bundle) Value(g Group) any {
	switch g {
	case Literature:
		return b.Literature
	case Outlines:
		return b.Outlines
	case Songs:
		return b.Songs
	case Tips:
		return b.Tips
	}
	return nil
}

// With returns b with every group provided by src replaced by src's slice.
// When groups are given, only those groups are considered.
func (b Bundle) With(src Bundle, groups ...Group) Bundle {
	if len(groups) == 0 {
		groups = Groups
	}
	for _, g := range groups {
		if !src.Has(g) {
			continue
		}
		switch g {
		case Literature:
			b.Literature = src.Literature
		case Outlines:
			b.Outlines = src.Outlines
		case Songs:
			b.Songs = src.Songs
		case Tips:
			b.Tips = src.Tips
		}
	}
	return b
}
