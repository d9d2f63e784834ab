// Package resolve joins resolved district keys against the officeholder
// index. Absence of an officeholder is data, never an error.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"rep-api/internal/index"
	"rep-api/internal/metrics"
)

// Portrait URLs derive deterministically from the bioguide id.
const photoURLTemplate = "https://theunitedstates.io/images/congress/450x550/%s.jpg"

// Representative is the resolution outcome for one district key: either a
// populated officeholder or an explicit missing marker with just the seat.
type Representative struct {
	State    string `json:"state"`
	District string `json:"district"`
	Name     string `json:"name,omitempty"`
	Party    string `json:"party,omitempty"`
	Phone    string `json:"phone,omitempty"`
	URL      string `json:"url,omitempty"`
	Bioguide string `json:"bioguide,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
	Missing  bool   `json:"missing,omitempty"`
}

// Representatives produces one result per input key, sorted by key for a
// stable per-call order. Keys without an index entry yield missing markers;
// this function never fails.
func Representatives(keys map[string]struct{}, idx index.Index) []Representative {
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	out := make([]Representative, 0, len(sorted))
	for _, key := range sorted {
		state, district, _ := strings.Cut(key, "-")
		entry, ok := idx[key]
		if !ok {
			metrics.MissingResultsTotal.Inc()
			out = append(out, Representative{State: state, District: district, Missing: true})
			continue
		}
		rep := Representative{
			State:    state,
			District: district,
			Name:     entry.Name,
			Party:    entry.Party,
			Phone:    entry.Phone,
			URL:      entry.URL,
			Bioguide: entry.Bioguide,
		}
		if entry.Bioguide != "" {
			rep.PhotoURL = fmt.Sprintf(photoURLTemplate, entry.Bioguide)
		}
		out = append(out, rep)
	}
	return out
}
