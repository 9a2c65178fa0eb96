package orderparser

import (
	"strings"
	"sync"

	"github.com/ninthcircle/conclave/pkg/diplomacy"
)

// UnknownProvince is the sentinel returned by NormalizeProvince when no
// exact, aliased, or fuzzy match can be found.
const UnknownProvince = "unknown"

// aliases covers full names, common misspellings, and sea/region names
// that don't match a province's canonical name closely enough for the
// fuzzy matcher alone.
var aliases = map[string]string{
	"marseille":       "mar",
	"marseilles":      "mar",
	"english channel": "eng",
	"channel":         "eng",
	"north sea":       "nth",
	"st petersburg":   "stp",
	"st. petersburg":  "stp",
	"saint petersburg": "stp",
	"petersburg":      "stp",
	"netherlands":     "hol",
	"holland":         "hol",
	"athens":          "gre",
}

var (
	nameIndexOnce sync.Once
	fullNameByID  map[string]string // id -> lowercased full name
	idByFullName  map[string]string // lowercased full name -> id
	validIDs      map[string]bool
)

func buildNameIndex() {
	m := diplomacy.StandardMap()
	fullNameByID = make(map[string]string, len(m.Provinces))
	idByFullName = make(map[string]string, len(m.Provinces))
	validIDs = make(map[string]bool, len(m.Provinces))
	for id, p := range m.Provinces {
		lname := strings.ToLower(p.Name)
		fullNameByID[id] = lname
		idByFullName[lname] = id
		validIDs[id] = true
	}
}

// NormalizeProvince resolves a free-text province reference to its
// canonical 3-letter id, following the exact -> alias -> fuzzy cascade.
// Returns (id, true) on success or (UnknownProvince, false) otherwise.
func NormalizeProvince(input string) (string, bool) {
	nameIndexOnce.Do(buildNameIndex)

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return UnknownProvince, false
	}

	// (a) uppercase trimmed exact match against a canonical 3-letter id.
	upper := strings.ToUpper(trimmed)
	lowerID := strings.ToLower(upper)
	if validIDs[lowerID] {
		return lowerID, true
	}

	lower := strings.ToLower(trimmed)

	// (b) alias table / full-name table.
	if id, ok := aliases[lower]; ok {
		return id, true
	}
	if id, ok := idByFullName[lower]; ok {
		return id, true
	}

	// (c) fuzzy match when input is long enough to be meaningful.
	if len(lower) >= 4 {
		threshold := 2
		if len(lower) > 10 {
			threshold = 3
		}
		bestID := ""
		bestDist := threshold + 1
		for name, id := range idByFullName {
			d := levenshtein(lower, name)
			if d < bestDist {
				bestDist = d
				bestID = id
			}
		}
		for name, id := range aliases {
			d := levenshtein(lower, name)
			if d < bestDist {
				bestDist = d
				bestID = id
			}
		}
		if bestID != "" && bestDist <= threshold {
			return bestID, true
		}
	}

	return UnknownProvince, false
}

// levenshtein computes the classic edit distance between two strings,
// bounded only by their lengths (no early exit — inputs here are short
// province names, so the O(n*m) table is cheap).
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
