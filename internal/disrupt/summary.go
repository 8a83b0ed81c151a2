package disrupt

import (
	"sort"
)

// Summarize rolls the disruption table up to one record per county.
// Counties appear only when they have at least one retained cohort.
func Summarize(disruptions []DisruptionRecord, reforms []NovelReformRecord) []CountySummaryRecord {
	byCounty := make(map[string][]DisruptionRecord)
	for _, rec := range disruptions {
		byCounty[rec.County] = append(byCounty[rec.County], rec)
	}

	reformCounts := make(map[string]int)
	for _, reform := range reforms {
		reformCounts[reform.County]++
	}

	summaries := make([]CountySummaryRecord, 0, len(byCounty))
	for county, rows := range byCounty {
		summaries = append(summaries, summarizeCounty(county, rows, reformCounts[county]))
	}

	sort.Slice(summaries, func(i int, j int) bool {
		return summaries[i].County < summaries[j].County
	})
	return summaries
}

func summarizeCounty(county string, rows []DisruptionRecord, nReforms int) CountySummaryRecord {
	summary := CountySummaryRecord{
		County:        county,
		NCountyYears:  len(rows),
		NNovelReforms: nReforms,
	}

	directionCounts := make(map[string]int)
	best := rows[0]
	for _, row := range rows {
		directionCounts[row.Direction]++
		if row.Classification != ClassStable {
			summary.NDisruptions++
			if summary.FirstDisruption == nil || row.Year < *summary.FirstDisruption {
				year := row.Year
				summary.FirstDisruption = &year
			}
		}
		if row.Classification == ClassMajor {
			summary.NMajorDisruptions++
		}
		if row.Score > best.Score {
			best = row
		}
	}

	summary.MostDisruptiveYear = best.Year
	summary.MaxScore = best.Score
	summary.DominantDirection = dominantDirection(directionCounts)
	return summary
}

// dominantDirection returns the mode of the per-cohort directions.
// Any tie for the mode resolves to neutral.
func dominantDirection(counts map[string]int) string {
	bestDirection := DirectionNeutral
	bestCount := -1
	tied := false
	for _, direction := range []string{DirectionProgressive, DirectionTraditional, DirectionNeutral} {
		n := counts[direction]
		if n > bestCount {
			bestDirection = direction
			bestCount = n
			tied = false
		} else if n == bestCount {
			tied = true
		}
	}
	if tied {
		return DirectionNeutral
	}
	return bestDirection
}
