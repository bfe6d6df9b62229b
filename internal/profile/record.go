package profile

import (
	"fmt"
	"strings"
)

// Sentinel is stored in place of any field that was checked but not found.
const Sentinel = "N/A"

type Field string

const (
	Bio            Field = "bio"
	FollowingCount Field = "following_count"
	FollowersCount Field = "followers_count"
	Location       Field = "location"
	Website        Field = "website"
	Title          Field = "title"
)

var AllFields = FieldSet{Bio, FollowingCount, FollowersCount, Location, Website, Title}

// FieldSet is the list of fields a fetch should read from the page.
type FieldSet []Field

// ProfileFields is the field set written by the csv sink.
var ProfileFields = FieldSet{Bio, FollowingCount, FollowersCount, Location, Website}

// SummaryFields is the field set written by the sqlite sink.
var SummaryFields = FieldSet{Title, FollowersCount}

func (s FieldSet) Has(f Field) bool {
	for _, x := range s {
		if x == f {
			return true
		}
	}
	return false
}

// ParseFieldSet turns field names into a FieldSet, rejecting unknown names.
func ParseFieldSet(names []string) (FieldSet, error) {
	set := make(FieldSet, 0, len(names))
	for _, n := range names {
		f := Field(strings.ToLower(strings.TrimSpace(n)))
		if !AllFields.Has(f) {
			return nil, fmt.Errorf("unknown field %q", n)
		}
		if !set.Has(f) {
			set = append(set, f)
		}
	}
	return set, nil
}

// Record is the result of fetching one profile. Every field always holds
// either a value read from the page or Sentinel.
type Record struct {
	Bio            string
	FollowingCount string
	FollowersCount string
	Location       string
	Website        string
	Title          string
}

// Empty returns a record with every field set to Sentinel.
func Empty() Record {
	return Record{
		Bio:            Sentinel,
		FollowingCount: Sentinel,
		FollowersCount: Sentinel,
		Location:       Sentinel,
		Website:        Sentinel,
		Title:          Sentinel,
	}
}

func (r Record) Get(f Field) string {
	switch f {
	case Bio:
		return r.Bio
	case FollowingCount:
		return r.FollowingCount
	case FollowersCount:
		return r.FollowersCount
	case Location:
		return r.Location
	case Website:
		return r.Website
	case Title:
		return r.Title
	}
	return Sentinel
}

// Set stores v for f. An empty value is stored as Sentinel.
func (r *Record) Set(f Field, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		v = Sentinel
	}
	switch f {
	case Bio:
		r.Bio = v
	case FollowingCount:
		r.FollowingCount = v
	case FollowersCount:
		r.FollowersCount = v
	case Location:
		r.Location = v
	case Website:
		r.Website = v
	case Title:
		r.Title = v
	}
}

// Outcome is what a sink did with one record.
type Outcome int

const (
	Inserted Outcome = iota
	DuplicateSkipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case DuplicateSkipped:
		return "duplicate_skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}
