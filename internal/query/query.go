// Package query turns listing query parameters into a repository filter
// and builds the pagination envelope of a listing response.
package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// FieldSet names the query parameters matched exactly against the
// listing field of the same name.
type FieldSet []string

var (
	CarFields        = FieldSet{"location", "typeOfCar", "color"}
	DecorationFields = FieldSet{"location", "typeOfDecoration"}
)

// Query is a parsed listing query.
type Query struct {
	Page   int64
	Limit  int64
	Skip   int64
	Filter bson.M
}

// Parse reads paging and filter parameters. Invalid paging values fall
// back to the defaults and never fail. limit is capped at MaxLimit and
// page is capped so that page*limit fits in an int64.
func Parse(values url.Values, fields FieldSet) Query {
	limit := min(positiveInt(values.Get("limit"), DefaultLimit), MaxLimit)
	page := min(positiveInt(values.Get("page"), DefaultPage), math.MaxInt64/limit)

	filter := bson.M{}
	for _, f := range fields {
		if v := strings.TrimSpace(values.Get(f)); v != "" {
			filter[f] = v
		}
	}
	if amenities := SplitList(values.Get("additionalAmenities")); len(amenities) > 0 {
		filter["additionalAmenities"] = bson.M{"$all": amenities}
	}

	return Query{
		Page:   page,
		Limit:  limit,
		Skip:   (page - 1) * limit,
		Filter: filter,
	}
}

// SplitList splits a comma separated list, dropping blank items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func positiveInt(s string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Pagination is the paging envelope of a listing response.
type Pagination struct {
	TotalItems  int64  `json:"totalItems"`
	TotalPages  int64  `json:"totalPages"`
	CurrentPage int64  `json:"currentPage"`
	Limit       int64  `json:"limit"`
	ItemRange   string `json:"itemRange"`
}

// NewPagination describes the page q selects out of total matches.
// itemRange is not clamped for pages past the end.
func NewPagination(total int64, q Query) Pagination {
	return Pagination{
		TotalItems:  total,
		TotalPages:  totalPages(total, q.Limit),
		CurrentPage: q.Page,
		Limit:       q.Limit,
		ItemRange:   fmt.Sprintf("%d-%d", q.Skip+1, min(q.Skip+q.Limit, total)),
	}
}

func totalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

// Policy controls how listing handlers treat an empty result.
type Policy struct {
	// EmptyAsNotFound reports zero matches as 404 instead of an empty list.
	EmptyAsNotFound bool
}

func DefaultPolicy() Policy {
	return Policy{EmptyAsNotFound: true}
}
