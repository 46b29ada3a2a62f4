package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportSummary aggregates counts over the final recommendation list.
type ReportSummary struct {
	TotalTables         int                 `json:"totalTables"`
	TotalRelationships  int                 `json:"totalRelationships"`
	HighConfidenceCount int                 `json:"highConfidenceCount"`
	LowConfidenceCount  int                 `json:"lowConfidenceCount"`
	ByProvenance        map[Provenance]int  `json:"byProvenance"`
	ByCardinality       map[Cardinality]int `json:"byCardinality"`
}

// AnalysisReport is the top-level output of one analysis run. Read-only once
// produced. A partial report returned after cancellation is still valid.
//
// RunID and GeneratedAt carry run identity only: they are the sole fields
// that differ between two runs over identical input. Everything else is a
// pure function of the source data.
type AnalysisReport struct {
	RunID       uuid.UUID `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`

	Relationships   []*RelationshipRecommendation `json:"relationships"`
	Summary         ReportSummary                 `json:"summary"`
	PotentialIssues []string                      `json:"potentialIssues"`
}

// Summarize computes the summary counts for the given recommendations.
func Summarize(totalTables int, recs []*RelationshipRecommendation) ReportSummary {
	s := ReportSummary{
		TotalTables:        totalTables,
		TotalRelationships: len(recs),
		ByProvenance:       make(map[Provenance]int),
		ByCardinality:      make(map[Cardinality]int),
	}
	for _, r := range recs {
		if r.Bucket == BucketAutoSuggest {
			s.HighConfidenceCount++
		} else {
			s.LowConfidenceCount++
		}
		s.ByProvenance[r.Provenance]++
		s.ByCardinality[r.Cardinality]++
	}
	return s
}
