package nzmap

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Diagnostic reports how a join went. Mismatches are data, not errors:
// the caller decides whether to log, print or ignore them.
type Diagnostic struct {
	// Matched is the number of boundaries that found a population record.
	Matched int

	// UnmatchedBoundaries lists boundary names with no population record,
	// in boundary order.
	UnmatchedBoundaries []string

	// UnusedRecords lists territory names from the population table that
	// matched no boundary, in table order.
	UnusedRecords []string

	// NearMisses pairs an unmatched boundary with an unused record whose
	// names agree once case, interior whitespace and diacritics are
	// folded. These are reported as probable data problems; the join
	// itself stays exact.
	NearMisses []NearMiss
}

// NearMiss is a boundary/record name pair that differs only in case,
// whitespace or diacritics. Macronized Māori names are the usual cause.
type NearMiss struct {
	Boundary string
	Record   string
}

// Join left-joins population records onto boundaries by exact territory
// name. It returns one Feature per boundary, in boundary order; features
// without a matching record keep nil population fields. When the table
// carries a name more than once, the first record wins.
func Join(boundaries []TerritoryBoundary, records []PopulationRecord) ([]Feature, Diagnostic) {
	byName := make(map[string]*PopulationRecord, len(records))
	for i := range records {
		if _, ok := byName[records[i].Territory]; !ok {
			byName[records[i].Territory] = &records[i]
		}
	}

	features := make([]Feature, len(boundaries))
	matched := make(map[string]bool, len(boundaries))
	var diag Diagnostic
	for i, b := range boundaries {
		features[i] = Feature{Name: b.Name, Geom: b.Geom}
		rec, ok := byName[b.Name]
		if !ok {
			diag.UnmatchedBoundaries = append(diag.UnmatchedBoundaries, b.Name)
			continue
		}
		matched[b.Name] = true
		diag.Matched++
		pop := rec.Population
		logPop := logPopulation(pop)
		features[i].Population = &pop
		features[i].LogPopulation = &logPop
	}

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if matched[rec.Territory] || seen[rec.Territory] {
			continue
		}
		seen[rec.Territory] = true
		diag.UnusedRecords = append(diag.UnusedRecords, rec.Territory)
	}

	diag.NearMisses = nearMisses(diag.UnmatchedBoundaries, diag.UnusedRecords)
	return features, diag
}

// nearMisses pairs unmatched boundaries with unused records under folded
// name equality. Pairs are in boundary order; each record is used once.
func nearMisses(boundaries, records []string) []NearMiss {
	folded := make(map[string]string, len(records))
	for _, r := range records {
		if _, ok := folded[foldName(r)]; !ok {
			folded[foldName(r)] = r
		}
	}
	var misses []NearMiss
	for _, b := range boundaries {
		if r, ok := folded[foldName(b)]; ok {
			misses = append(misses, NearMiss{Boundary: b, Record: r})
			delete(folded, foldName(b))
		}
	}
	return misses
}

var foldTransform = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// foldName normalizes a territory name for near-miss comparison only:
// lower case, collapsed whitespace, combining marks stripped so that
// "Kaikōura" and "Kaikoura" fold together.
func foldName(name string) string {
	s, _, err := transform.String(foldTransform, name)
	if err != nil {
		s = name
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
