package catalog

import (
	"strconv"
	"strings"
)

const (
	// MaxResults caps how many identifiers a search keeps.
	MaxResults = 120

	// DefaultTitle is used when an object has no title.
	DefaultTitle = "Untitled"

	// DefaultArtist is used when an object has no artist display name.
	DefaultArtist = "Unknown Artist"
)

// ObjectID identifies one catalog item. Produced by Search, consumed by
// FetchDetail.
type ObjectID int64

// String returns the decimal form used in URLs and log fields.
func (id ObjectID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseObjectID parses the decimal form of an ObjectID.
func ParseObjectID(s string) (ObjectID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return ObjectID(n), nil
}

// ResultSet is the ordered list of identifiers from one search.
// It is never longer than MaxResults and must not be modified after
// construction.
type ResultSet []ObjectID

// NewResultSet copies ids, keeping the first MaxResults in order.
func NewResultSet(ids []ObjectID) ResultSet {
	n := len(ids)
	if n > MaxResults {
		n = MaxResults
	}
	rs := make(ResultSet, n)
	copy(rs, ids[:n])
	return rs
}

// Len returns the number of identifiers.
func (rs ResultSet) Len() int { return len(rs) }

// ArtworkSummary holds the normalized display fields of one object.
type ArtworkSummary struct {
	ID       ObjectID `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Artist   string   `json:"artist" yaml:"artist"`
	Date     string   `json:"date" yaml:"date"`
	ImageURL string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// HasImage reports whether the object carries an image URL.
func (s ArtworkSummary) HasImage() bool {
	return s.ImageURL != ""
}

// Catalog API JSON structures.
type searchResponse struct {
	Total     int        `json:"total"`
	ObjectIDs []ObjectID `json:"objectIDs"`
}

type objectResponse struct {
	ObjectID          ObjectID `json:"objectID"`
	Title             *string  `json:"title"`
	ArtistDisplayName *string  `json:"artistDisplayName"`
	ObjectDate        *string  `json:"objectDate"`
	PrimaryImageSmall *string  `json:"primaryImageSmall"`
}

// summary applies the field defaults. Absent, null and blank values all
// count as missing.
func (o objectResponse) summary(id ObjectID) ArtworkSummary {
	return ArtworkSummary{
		ID:       id,
		Title:    valueOr(o.Title, DefaultTitle),
		Artist:   valueOr(o.ArtistDisplayName, DefaultArtist),
		Date:     valueOr(o.ObjectDate, ""),
		ImageURL: valueOr(o.PrimaryImageSmall, ""),
	}
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return fallback
	}
	return v
}
