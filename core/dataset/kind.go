package dataset

import (
	"fmt"
	"strings"
)

// Kind names one of the dataset types the service distributes.
type Kind string

const (
	KindRules         Kind = "Rules"
	KindValueSets     Kind = "ValueSets"
	KindCountryList   Kind = "CountryList"
	KindDomesticRules Kind = "DomesticRules"
)

// Kinds returns every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindRules, KindValueSets, KindCountryList, KindDomesticRules}
}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(string(k), name) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown dataset type %q", name)
}

// CountryScoped reports whether items of this kind carry a country code.
func (k Kind) CountryScoped() bool {
	return k == KindRules || k == KindDomesticRules
}

// LockName is the name of the distributed lock guarding the sync job.
func (k Kind) LockName() string {
	return strings.ToLower(string(k)) + "_download"
}

// CacheName is the name of the read cache holding this kind.
func (k Kind) CacheName() string {
	switch k {
	case KindRules:
		return "business_rules"
	case KindValueSets:
		return "value_sets"
	case KindCountryList:
		return "country_list"
	case KindDomesticRules:
		return "domestic_rules"
	}
	return strings.ToLower(string(k))
}

// TableName is the table backing a durable store of this kind.
func (k Kind) TableName() string {
	switch k {
	case KindRules:
		return "business_rules"
	case KindValueSets:
		return "valuesets"
	case KindDomesticRules:
		return "domestic_rules"
	}
	return strings.ToLower(string(k))
}
