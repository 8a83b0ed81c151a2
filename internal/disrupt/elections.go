package disrupt

import (
	"sort"
	"strings"

	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/dataset"
)

// electionIndex answers "nearest prior election" lookups per county.
type electionIndex struct {
	byCounty map[string][]dataset.ElectionRecord
}

func newElectionIndex(records []dataset.ElectionRecord) *electionIndex {
	byCounty := make(map[string][]dataset.ElectionRecord)
	for _, rec := range records {
		key := normalizeCounty(rec.County)
		byCounty[key] = append(byCounty[key], rec)
	}
	for key := range byCounty {
		rows := byCounty[key]
		sort.Slice(rows, func(i int, j int) bool {
			return rows[i].ElectionYear < rows[j].ElectionYear
		})
		byCounty[key] = rows
	}
	return &electionIndex{byCounty: byCounty}
}

// Match returns the election fields for the nearest election at or
// before year in the given county. A miss yields all-absent fields and
// is counted in diag.
func (idx *electionIndex) Match(county string, year int, diag *Diagnostics) ElectionFields {
	rows := idx.byCounty[normalizeCounty(county)]

	var found *dataset.ElectionRecord
	for i := range rows {
		if rows[i].ElectionYear > year {
			break
		}
		found = &rows[i]
	}
	if found == nil {
		if diag != nil {
			diag.ElectionJoinMisses++
		}
		return ElectionFields{}
	}

	electionYear := found.ElectionYear
	return ElectionFields{
		ElectionYear:  &electionYear,
		WinnerName:    found.WinnerName,
		Margin1st2nd:  found.Margin1st2nd,
		Close5pp:      found.Close5pp,
		Close10pp:     found.Close10pp,
		Close15pp:     found.Close15pp,
		ChallengerWon: found.ChallengerWon,
	}
}

// normalizeCounty aligns the two tables' county spellings: the election
// table drops the " County" suffix the policy table carries.
func normalizeCounty(county string) string {
	name := strings.TrimSpace(county)
	name = strings.TrimSuffix(name, " County")
	return strings.ToLower(name)
}
