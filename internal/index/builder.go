package index

import (
	"errors"
	"strings"
	"time"

	"rep-api/internal/logger"
	"rep-api/internal/metrics"
	"rep-api/internal/roster"
)

// Entry is the materialized current occupant of one seat key, with the source
// records retained for downstream enrichment.
type Entry struct {
	Name     string
	Party    string
	Phone    string
	URL      string
	Bioguide string

	Legislator roster.Legislator
	Term       roster.Term
}

// Index maps canonical "STATE-N" seat keys to their single officeholder.
type Index map[string]Entry

type candidate struct {
	seat seatTerm
	leg  roster.Legislator
	term roster.Term
}

// Build constructs the full index from the roster as of "now". Per-key
// selection: any term current at "now" wins; with none current the greatest
// start instant wins; exact start ties keep the first candidate encountered.
// Malformed terms are skipped individually and never abort the build.
func Build(legs []roster.Legislator, now time.Time) Index {
	byKey := make(map[string][]candidate)
	var order []string
	skipped := 0
	for _, leg := range legs {
		for _, t := range leg.Terms {
			seat, err := normalizeTerm(t, now)
			if err != nil {
				if !errors.Is(err, errNotHouse) {
					skipped++
					logger.L().Debug("index_term_skipped", "bioguide", leg.ID.Bioguide, "err", err)
				}
				continue
			}
			if _, seen := byKey[seat.Key]; !seen {
				order = append(order, seat.Key)
			}
			byKey[seat.Key] = append(byKey[seat.Key], candidate{seat: seat, leg: leg, term: t})
		}
	}

	idx := make(Index, len(byKey))
	for _, key := range order {
		idx[key] = materialize(pick(byKey[key]))
	}
	if skipped > 0 {
		metrics.IndexSkippedTermsTotal.Add(float64(skipped))
	}
	metrics.IndexBuildsTotal.Inc()
	metrics.IndexEntries.Set(float64(len(idx)))
	logger.L().Info("index_built", "seats", len(idx), "skipped_terms", skipped)
	return idx
}

// pick selects the authoritative candidate for one seat. The slice is in
// roster encounter order, which is what makes the tie-breaks deterministic.
func pick(cands []candidate) candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.seat.Current && !best.seat.Current {
			best = c
			continue
		}
		if !c.seat.Current && best.seat.Current {
			continue
		}
		// Same currency class: strictly greater start wins, first stays on ties.
		if c.seat.StartEpoch > best.seat.StartEpoch && !best.seat.Current {
			best = c
		}
	}
	return best
}

func materialize(c candidate) Entry {
	return Entry{
		Name:       displayName(c.leg.Name),
		Party:      fallback(c.term.Party, c.leg.Party),
		Phone:      fallback(c.term.Phone, c.leg.Phone),
		URL:        fallback(c.term.URL, c.leg.URL),
		Bioguide:   c.leg.ID.Bioguide,
		Legislator: c.leg,
		Term:       c.term,
	}
}

// Name shape variants; exactly one applies per legislator, chosen by which
// fields are present.
type nameVariant int

const (
	nameStructured nameVariant = iota // first/middle/last
	nameFlat                          // first/last
	namePrecomputed                   // official full string
	nameEmpty
)

func classifyName(n roster.Name) nameVariant {
	switch {
	case n.First != "" && n.Middle != "":
		return nameStructured
	case n.First != "" || n.Last != "":
		return nameFlat
	case n.OfficialFull != "":
		return namePrecomputed
	default:
		return nameEmpty
	}
}

// displayName renders a legislator's name by its variant: structured and flat
// join non-empty parts with single spaces, precomputed is used verbatim.
func displayName(n roster.Name) string {
	switch classifyName(n) {
	case nameStructured:
		return joinParts(n.First, n.Middle, n.Last)
	case nameFlat:
		return joinParts(n.First, n.Last)
	case namePrecomputed:
		return n.OfficialFull
	default:
		return ""
	}
}

func joinParts(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func fallback(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
