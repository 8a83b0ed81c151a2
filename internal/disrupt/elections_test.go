package disrupt

import (
	"testing"

	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/dataset"
)

func TestElectionIndex_NearestPriorElection(t *testing.T) {
	t.Parallel()

	idx := newElectionIndex([]dataset.ElectionRecord{
		{County: "Alameda", ElectionYear: 2014, WinnerName: sptr("O'Malley")},
		{County: "Alameda", ElectionYear: 2018, WinnerName: sptr("O'Malley")},
		{County: "Alameda", ElectionYear: 2022, WinnerName: sptr("Price")},
	})

	tests := []struct {
		name     string
		year     int
		wantYear int
	}{
		{name: "exact election year", year: 2018, wantYear: 2018},
		{name: "between elections", year: 2020, wantYear: 2018},
		{name: "after latest", year: 2024, wantYear: 2022},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fields := idx.Match("Alameda County", tc.year, nil)
			if fields.ElectionYear == nil || *fields.ElectionYear != tc.wantYear {
				t.Fatalf("ElectionYear = %v, want %d", fields.ElectionYear, tc.wantYear)
			}
		})
	}
}

func TestElectionIndex_MissBeforeFirstElection(t *testing.T) {
	t.Parallel()

	idx := newElectionIndex([]dataset.ElectionRecord{
		{County: "Alameda", ElectionYear: 2018},
	})

	var diag Diagnostics
	fields := idx.Match("Alameda County", 2016, &diag)
	if fields.ElectionYear != nil {
		t.Fatalf("fields = %+v, want all-absent", fields)
	}
	if diag.ElectionJoinMisses != 1 {
		t.Fatalf("ElectionJoinMisses = %d, want 1", diag.ElectionJoinMisses)
	}
}

func TestElectionIndex_UnknownCountyCounted(t *testing.T) {
	t.Parallel()

	idx := newElectionIndex(nil)
	var diag Diagnostics
	if fields := idx.Match("Modoc County", 2020, &diag); fields.ElectionYear != nil {
		t.Fatalf("fields = %+v, want all-absent", fields)
	}
	if diag.ElectionJoinMisses != 1 {
		t.Fatalf("ElectionJoinMisses = %d, want 1", diag.ElectionJoinMisses)
	}
}

func TestNormalizeCounty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Los Angeles County", want: "los angeles"},
		{in: "Los Angeles", want: "los angeles"},
		{in: "  Kern County ", want: "kern"},
		{in: "SAN FRANCISCO", want: "san francisco"},
	}
	for _, tc := range tests {
		if got := normalizeCounty(tc.in); got != tc.want {
			t.Errorf("normalizeCounty(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestElectionIndex_CarriesOptionalFields(t *testing.T) {
	t.Parallel()

	idx := newElectionIndex([]dataset.ElectionRecord{
		{
			County:        "Kern",
			ElectionYear:  2018,
			WinnerName:    sptr("Zimmer"),
			Margin1st2nd:  fptr(3.2),
			Close5pp:      bptr(true),
			Close10pp:     bptr(true),
			Close15pp:     bptr(true),
			ChallengerWon: bptr(false),
		},
	})

	fields := idx.Match("Kern County", 2019, nil)
	if fields.WinnerName == nil || *fields.WinnerName != "Zimmer" {
		t.Fatalf("WinnerName = %v", fields.WinnerName)
	}
	if fields.Margin1st2nd == nil || !almostEqual(*fields.Margin1st2nd, 3.2) {
		t.Fatalf("Margin1st2nd = %v", fields.Margin1st2nd)
	}
	if fields.Close5pp == nil || !*fields.Close5pp {
		t.Fatalf("Close5pp = %v", fields.Close5pp)
	}
	if fields.ChallengerWon == nil || *fields.ChallengerWon {
		t.Fatalf("ChallengerWon = %v", fields.ChallengerWon)
	}
}

func TestElectionIndex_UnsortedInput(t *testing.T) {
	t.Parallel()

	idx := newElectionIndex([]dataset.ElectionRecord{
		{County: "Fresno", ElectionYear: 2022},
		{County: "Fresno", ElectionYear: 2014},
		{County: "Fresno", ElectionYear: 2018},
	})
	fields := idx.Match("Fresno County", 2019, nil)
	if fields.ElectionYear == nil || *fields.ElectionYear != 2018 {
		t.Fatalf("ElectionYear = %v, want 2018", fields.ElectionYear)
	}
}
