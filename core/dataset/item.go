package dataset

import (
	"errors"
	"strings"

	"rules-service/core/hash"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("dataset: not found")

// Key identifies an item inside its store.
type Key struct {
	Country string
	Hash    string
}

// String returns the concatenated country and hash.
func (k Key) String() string {
	return k.Country + k.Hash
}

// Item is a single distributed record.
type Item struct {
	Hash       string
	Identifier string
	Country    string
	Version    string
	RawData    string
	Signature  string
}

// NewItem builds an item from its raw payload, computing the hash and
// normalizing the country code to upper case.
func NewItem(identifier, country, version, raw string) Item {
	return Item{
		Hash:       hash.SumString(raw),
		Identifier: identifier,
		Country:    strings.ToUpper(country),
		Version:    version,
		RawData:    raw,
	}
}

// Key returns the store key of the item.
func (i Item) Key() Key {
	return Key{Country: i.Country, Hash: i.Hash}
}

// Listing returns the metadata projection of the item.
func (i Item) Listing() Listing {
	return Listing{
		Identifier: i.Identifier,
		Version:    i.Version,
		Country:    i.Country,
		Hash:       i.Hash,
	}
}

// Listing is the metadata projection of an item, without payload.
type Listing struct {
	Identifier string
	Version    string
	Country    string
	Hash       string
}

// Key returns the store key of the listed item.
func (l Listing) Key() Key {
	return Key{Country: l.Country, Hash: l.Hash}
}

type ruleListing struct {
	Identifier string `json:"identifier"`
	Version    string `json:"version"`
	Country    string `json:"country"`
	Hash       string `json:"hash"`
}

type valueSetListing struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
}

// MarshalListing renders a listing the way clients receive it. Value sets
// are listed as id and hash; rule kinds carry identifier, version, country
// and hash. An empty listing renders as "[]".
func MarshalListing(kind Kind, listings []Listing) ([]byte, error) {
	if kind == KindValueSets {
		out := make([]valueSetListing, 0, len(listings))
		for _, l := range listings {
			out = append(out, valueSetListing{ID: l.Identifier, Hash: l.Hash})
		}
		return json.Marshal(out)
	}

	out := make([]ruleListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, ruleListing{Identifier: l.Identifier, Version: l.Version, Country: l.Country, Hash: l.Hash})
	}
	return json.Marshal(out)
}

// FilterByCountry keeps the listings whose country equals the given code,
// ignoring case.
func FilterByCountry(listings []Listing, country string) []Listing {
	out := make([]Listing, 0)
	for _, l := range listings {
		if strings.EqualFold(l.Country, country) {
			out = append(out, l)
		}
	}
	return out
}
