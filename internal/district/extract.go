// Package district reconciles a geography-lookup response into canonical
// "STATE-N" congressional district keys. The upstream field names shift with
// the district benchmark/vintage in use, so extraction is an ordered table of
// defensive rules rather than a fixed schema.
package district

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"rep-api/internal/logger"
)

// ErrNoDistricts reports a geography response with no congressional district
// collection at all; the caller surfaces it as a categorized failure.
var ErrNoDistricts = errors.New("no congressional districts in geography response")

// Known collection spellings, tried only when no key contains "congress".
var knownCollectionKeys = []string{
	"119th Congressional Districts",
	"118th Congressional Districts",
	"117th Congressional Districts",
	"116th Congressional Districts",
	"115th Congressional Districts",
	"Congressional Districts",
}

var (
	cdField        = regexp.MustCompile(`^CD\d{1,3}$`)
	trailingDigits = regexp.MustCompile(`(\d+)\s*$`)
	digitRun       = regexp.MustCompile(`\d+`)
)

// numberRule tries to read a district number from one geography object.
// Rules return ok=false instead of failing so new upstream shapes stay
// additive; first match wins and no match at all means at-large.
type numberRule func(obj map[string]any) (string, bool)

var numberRules = []numberRule{
	// CD119/CD116/... field: the value is the district number itself.
	func(obj map[string]any) (string, bool) {
		for k, v := range obj {
			if cdField.MatchString(strings.ToUpper(k)) {
				return asString(v), true
			}
		}
		return "", false
	},
	// Any *name* field whose value talks about a district: trailing digits.
	func(obj map[string]any) (string, bool) {
		for k, v := range obj {
			if !strings.Contains(strings.ToLower(k), "name") {
				continue
			}
			s := asString(v)
			if !strings.Contains(strings.ToLower(s), "district") {
				continue
			}
			if m := trailingDigits.FindStringSubmatch(s); m != nil {
				return m[1], true
			}
		}
		return "", false
	},
	// Bare NAME field: trailing digits regardless of wording.
	func(obj map[string]any) (string, bool) {
		if m := trailingDigits.FindStringSubmatch(asString(obj["NAME"])); m != nil {
			return m[1], true
		}
		return "", false
	},
}

// Extract resolves every district-geography object in the response into the
// set of canonical seat keys. Objects with unrecognized state FIPS codes are
// skipped individually; only a missing collection is an error.
func Extract(geographies map[string]any) (map[string]struct{}, error) {
	objs := findCollection(geographies)
	if objs == nil {
		return nil, ErrNoDistricts
	}
	keys := make(map[string]struct{})
	for _, it := range objs {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		state, ok := stateCode(obj)
		if !ok {
			logger.L().Debug("district_skip_unknown_fips", "obj_name", asString(obj["NAME"]))
			continue
		}
		keys[state+"-"+districtNumber(obj)] = struct{}{}
	}
	return keys, nil
}

// findCollection scans the geography mapping for the congressional district
// collection: any key containing "congress" case-insensitively, then the
// fixed fallback spellings.
func findCollection(geographies map[string]any) []any {
	for k, v := range geographies {
		if strings.Contains(strings.ToLower(k), "congress") {
			if arr, ok := v.([]any); ok {
				return arr
			}
		}
	}
	for _, k := range knownCollectionKeys {
		if arr, ok := geographies[k].([]any); ok {
			return arr
		}
	}
	return nil
}

// districtNumber applies the rule table; no rule matching means an at-large
// seat, which is district 1 by convention.
func districtNumber(obj map[string]any) string {
	for _, rule := range numberRules {
		if s, ok := rule(obj); ok {
			return normalizeNumber(s)
		}
	}
	return "1"
}

// normalizeNumber strips the value down to its digits; zero ("00") is the
// census at-large encoding and maps to 1.
func normalizeNumber(s string) string {
	m := digitRun.FindString(s)
	if m == "" {
		return "1"
	}
	trimmed := strings.TrimLeft(m, "0")
	if trimmed == "" {
		return "1"
	}
	return trimmed
}

// stateCode reads the state FIPS from STATE, STATEFP, or the GEOID prefix and
// translates it to the postal abbreviation.
func stateCode(obj map[string]any) (string, bool) {
	fips := asString(obj["STATE"])
	if fips == "" {
		fips = asString(obj["STATEFP"])
	}
	if fips == "" {
		if g := asString(obj["GEOID"]); len(g) >= 2 {
			fips = g[:2]
		}
	}
	if fips == "" {
		return "", false
	}
	if len(fips) == 1 {
		fips = "0" + fips
	}
	code, ok := fipsToPostal[fips]
	return code, ok
}

// asString coerces the mixed scalar types a decoded JSON object carries.
func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprintf("%.0f", x)
	case int:
		return fmt.Sprintf("%d", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
