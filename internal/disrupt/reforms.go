package disrupt

import (
	"sort"

	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/codebook"
	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/dataset"
)

// firstAdoption remembers the document that first realized a reform in
// a county. The ingest row index is the stable tie-break within a year.
type firstAdoption struct {
	record   NovelReformRecord
	rowIndex int
}

// DetectNovelReforms finds, per county, the first chronological
// occurrence of each catalog reform: every topic in the vocabulary and
// every position predicate. It scans the full document table, not just
// retained cohorts. Ranks and statewide-first flags compare counties by
// first-adoption year with ties broken by ingest order.
func DetectNovelReforms(docs []dataset.Document, cb *codebook.Codebook) []NovelReformRecord {
	ordered := make([]dataset.Document, len(docs))
	copy(ordered, docs)
	sort.Slice(ordered, func(i int, j int) bool {
		if ordered[i].Year != ordered[j].Year {
			return ordered[i].Year < ordered[j].Year
		}
		return ordered[i].RowIndex < ordered[j].RowIndex
	})

	// reform name -> county -> earliest adoption
	adoptions := make(map[string]map[string]firstAdoption)
	note := func(county string, reformType string, reformName string, doc dataset.Document) {
		byCounty, ok := adoptions[reformName]
		if !ok {
			byCounty = make(map[string]firstAdoption)
			adoptions[reformName] = byCounty
		}
		if _, seen := byCounty[county]; seen {
			return
		}
		byCounty[county] = firstAdoption{
			record: NovelReformRecord{
				County:        county,
				Year:          doc.Year,
				ReformType:    reformType,
				ReformName:    reformName,
				Document:      doc.DocID(),
				IdeologyScore: doc.IdeologyScore,
			},
			rowIndex: doc.RowIndex,
		}
	}

	for _, doc := range ordered {
		if doc.PrimaryTopic != nil && cb.KnownTopic(*doc.PrimaryTopic) {
			note(doc.County, ReformNovelTopic, *doc.PrimaryTopic, doc)
		}
		for _, pos := range cb.Positions {
			if doc.Positions[pos.Column] == pos.Trigger {
				note(doc.County, ReformNovelPosition, pos.Reform, doc)
			}
		}
	}

	records := rankAdoptions(adoptions)
	sort.Slice(records, func(i int, j int) bool {
		if records[i].County != records[j].County {
			return records[i].County < records[j].County
		}
		if records[i].ReformName != records[j].ReformName {
			return records[i].ReformName < records[j].ReformName
		}
		return records[i].Year < records[j].Year
	})
	return records
}

// rankAdoptions assigns statewide-first flags and adoption ranks per
// reform. Rank is the 1-based position in the county list sorted by
// (year, ingest row index); statewide_first is true for every county
// adopting in the reform's earliest year.
func rankAdoptions(adoptions map[string]map[string]firstAdoption) []NovelReformRecord {
	records := make([]NovelReformRecord, 0)

	for _, byCounty := range adoptions {
		counties := make([]firstAdoption, 0, len(byCounty))
		for _, adoption := range byCounty {
			counties = append(counties, adoption)
		}
		sort.Slice(counties, func(i int, j int) bool {
			if counties[i].record.Year != counties[j].record.Year {
				return counties[i].record.Year < counties[j].record.Year
			}
			return counties[i].rowIndex < counties[j].rowIndex
		})

		earliestYear := counties[0].record.Year
		for i, adoption := range counties {
			adoption.record.AdoptionRank = i + 1
			adoption.record.StatewideFirst = adoption.record.Year == earliestYear
			records = append(records, adoption.record)
		}
	}
	return records
}
