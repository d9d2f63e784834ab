// Package index builds the in-memory officeholder index: one authoritative
// current (or most recent) House occupant per state-district seat key. The
// index is built wholesale from the roster and swapped atomically on reload.
package index

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rep-api/internal/roster"
)

// House terms carry this type marker; anything else (sen, prez, ...) is
// irrelevant to district resolution.
const houseTermType = "rep"

const dateLayout = "2006-01-02"

var (
	errNotHouse     = errors.New("not a house term")
	errMissingState = errors.New("term has no state")
)

var (
	digitRun       = regexp.MustCompile(`\d+`)
	atLargePattern = regexp.MustCompile(`(?i)at[-\s]?large`)
)

// seatTerm is one normalized candidate for a seat: canonical key, whether the
// term covers "now", and the start instant for most-recent tie-breaking.
type seatTerm struct {
	Key        string
	State      string
	District   string
	Current    bool
	StartEpoch int64
}

// normalizeDistrict maps a raw district value onto the canonical positive
// numeric string. Missing, zero, and at-large spellings all collapse to "1":
// an at-large state has exactly one seat and it is district 1.
func normalizeDistrict(raw string) string {
	s := strings.TrimSpace(raw)
	if m := digitRun.FindString(s); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return strconv.Itoa(n)
		}
		// Zero ("0", "00") is the dataset's at-large encoding.
		return "1"
	}
	if s == "" || atLargePattern.MatchString(s) {
		return "1"
	}
	// Digit-free text that is not an at-large spelling still maps to the
	// single seat; keys outside {state}-{1..N} are never produced.
	return "1"
}

// normalizeTerm turns one raw roster term into a seat candidate. Returns
// errNotHouse for non-House terms and errMissingState / date parse errors for
// malformed ones; callers skip those without aborting the build.
func normalizeTerm(t roster.Term, now time.Time) (seatTerm, error) {
	if t.Type != houseTermType {
		return seatTerm{}, errNotHouse
	}
	state := strings.ToUpper(strings.TrimSpace(t.State))
	if state == "" {
		return seatTerm{}, errMissingState
	}
	district := normalizeDistrict(string(t.District))

	// Absent bounds are open-ended: a term with no start is treated as
	// already begun, a term with no end as still running.
	current := true
	var startEpoch int64
	if t.Start != "" {
		start, err := time.Parse(dateLayout, t.Start)
		if err != nil {
			return seatTerm{}, err
		}
		startEpoch = start.Unix()
		if start.After(now) {
			current = false
		}
	}
	if t.End != "" {
		end, err := time.Parse(dateLayout, t.End)
		if err != nil {
			return seatTerm{}, err
		}
		if end.Before(now) {
			current = false
		}
	}
	return seatTerm{
		Key:        state + "-" + district,
		State:      state,
		District:   district,
		Current:    current,
		StartEpoch: startEpoch,
	}, nil
}
