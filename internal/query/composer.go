// Package query derives outbound listing requests from independent search
// facets and schedules their issuance.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// SortBy is the listing sort key accepted by the remote API.
type SortBy string

// SortOrder is the listing sort direction.
type SortOrder string

const (
	SortByDownloads SortBy = "downloads"
	SortByPrice     SortBy = "price"
	SortByRating    SortBy = "rating"

	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// PriceUnbounded is the slider ceiling meaning "no price filter".
const PriceUnbounded = 10

// DefaultLimit caps every listing request.
const DefaultLimit = 50

// Facets are the four independent inputs a listing request is derived from.
// The zero value is NOT a valid default; use DefaultFacets.
type Facets struct {
	Query     string    `json:"q"`
	Category  string    `json:"category"`
	MaxPrice  int       `json:"max_price"`
	SortBy    SortBy    `json:"sort_by"`
	SortOrder SortOrder `json:"sort_order"`
}

// DefaultFacets is the initial browse state: everything, most popular first,
// price unbounded.
func DefaultFacets() Facets {
	return Facets{
		MaxPrice:  PriceUnbounded,
		SortBy:    SortByDownloads,
		SortOrder: OrderDesc,
	}
}

// Normalize clamps and defaults facet values so every composed request is
// well-formed regardless of input source (typed JSON, query strings, sliders).
func (f Facets) Normalize() Facets {
	f.Query = strings.TrimSpace(f.Query)
	f.Category = strings.TrimSpace(f.Category)

	// "All"/"None" are the UI's spellings of "no category filter".
	switch strings.ToLower(f.Category) {
	case "all", "none":
		f.Category = ""
	}

	if f.MaxPrice < 0 {
		f.MaxPrice = 0
	}
	if f.MaxPrice > PriceUnbounded {
		f.MaxPrice = PriceUnbounded
	}

	switch f.SortBy {
	case SortByDownloads, SortByPrice, SortByRating:
	default:
		f.SortBy = SortByDownloads
	}
	switch f.SortOrder {
	case OrderAsc, OrderDesc:
	default:
		f.SortOrder = OrderDesc
	}

	return f
}

// Request is one composed outbound listing request, relative to the API base.
type Request struct {
	Path   string
	Params url.Values
}

// Encode renders the request as a path with query string.
func (r Request) Encode() string {
	if len(r.Params) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Params.Encode()
}

// Compose maps facets to exactly one outbound request. Priority order,
// first match wins:
//
//  1. query and category set -> category-scoped search
//  2. category set           -> category listing
//  3. query set              -> free-text search
//  4. neither                -> unfiltered browse-all listing
//
// Browse-all as the empty default is deliberate; "show nothing" was retired.
// A non-positive limit falls back to DefaultLimit.
func Compose(f Facets, limit int) Request {
	f = f.Normalize()
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("max_price", strconv.Itoa(f.MaxPrice))
	params.Set("sort_by", string(f.SortBy))
	params.Set("sort_order", string(f.SortOrder))
	params.Set("limit", strconv.Itoa(limit))

	switch {
	case f.Query != "" && f.Category != "":
		params.Set("q", f.Query)
		params.Set("category", f.Category)
		return Request{Path: "/search", Params: params}

	case f.Category != "":
		params.Set("category", f.Category)
		return Request{Path: "/apps", Params: params}

	case f.Query != "":
		params.Set("q", f.Query)
		return Request{Path: "/search", Params: params}

	default:
		return Request{Path: "/apps", Params: params}
	}
}
