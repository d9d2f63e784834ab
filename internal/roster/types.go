// Package roster loads the static legislators dataset: every legislator with
// the full history of their terms of office. The file is read-only input for
// the officeholder index and is never written by this service.
package roster

import (
	"encoding/json"
	"strconv"
)

// Legislator is one person in the roster. Name shape varies across dataset
// vintages; contact fields may live here or on individual terms.
type Legislator struct {
	ID    Identifiers `json:"id" yaml:"id"`
	Name  Name        `json:"name" yaml:"name"`
	Party string      `json:"party,omitempty" yaml:"party,omitempty"`
	Phone string      `json:"phone,omitempty" yaml:"phone,omitempty"`
	URL   string      `json:"url,omitempty" yaml:"url,omitempty"`
	Terms []Term      `json:"terms" yaml:"terms"`
}

// Identifiers carries the stable cross-dataset ids; only bioguide is consumed
// here (photo derivation and response enrichment).
type Identifiers struct {
	Bioguide string `json:"bioguide,omitempty" yaml:"bioguide,omitempty"`
}

// Name covers the three shapes seen in the wild: structured first/middle/last,
// flat first/last, and a precomputed full name.
type Name struct {
	First        string `json:"first,omitempty" yaml:"first,omitempty"`
	Middle       string `json:"middle,omitempty" yaml:"middle,omitempty"`
	Last         string `json:"last,omitempty" yaml:"last,omitempty"`
	OfficialFull string `json:"official_full,omitempty" yaml:"official_full,omitempty"`
}

// Term is one contiguous span of holding a seat. Start/End are ISO dates and
// may be absent (open-ended). District arrives as an integer, a numeric
// string, or at-large text depending on the source vintage.
type Term struct {
	Type     string      `json:"type" yaml:"type"`
	State    string      `json:"state" yaml:"state"`
	District RawDistrict `json:"district,omitempty" yaml:"district,omitempty"`
	Start    string      `json:"start,omitempty" yaml:"start,omitempty"`
	End      string      `json:"end,omitempty" yaml:"end,omitempty"`
	Party    string      `json:"party,omitempty" yaml:"party,omitempty"`
	Phone    string      `json:"phone,omitempty" yaml:"phone,omitempty"`
	URL      string      `json:"url,omitempty" yaml:"url,omitempty"`
}

// RawDistrict preserves the district value as text whatever scalar type the
// source used; normalization happens downstream.
type RawDistrict string

func (d *RawDistrict) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = RawDistrict(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = RawDistrict(strconv.Itoa(int(n)))
	return nil
}

func (d *RawDistrict) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*d = RawDistrict(x)
	case int:
		*d = RawDistrict(strconv.Itoa(x))
	case float64:
		*d = RawDistrict(strconv.Itoa(int(x)))
	case nil:
		*d = ""
	}
	return nil
}
