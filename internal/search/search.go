// Package search decides which records satisfy a query record.
//
// A query is an ordinary record used as a template. Every field that is present on both the
// query and the candidate must be equal ignoring case; a field absent on either side places no
// constraint. The empty string is a present value and is compared like any other.
package search

import (
	"strings"

	"gitlab.com/dirk.krummacker/addressbook/internal/model"
)

// Matches returns true if candidate satisfies query. An all-absent query matches every record.
func Matches(candidate, query *model.Record) bool {
	for _, f := range model.Fields {
		want := query.Get(f)
		have := candidate.Get(f)
		if want == nil || have == nil {
			continue
		}
		if !strings.EqualFold(*have, *want) {
			return false
		}
	}
	return true
}

// Filter returns the records matching query in their original order. The returned slice shares
// the record pointers with records.
func Filter(records []*model.Record, query *model.Record) []*model.Record {
	result := make([]*model.Record, 0, len(records))
	for _, rec := range records {
		if Matches(rec, query) {
			result = append(result, rec)
		}
	}
	return result
}

// IsEmpty returns true if no field of query is present, i.e. it would match everything.
func IsEmpty(query *model.Record) bool {
	for _, f := range model.Fields {
		if query.Get(f) != nil {
			return false
		}
	}
	return true
}
