package models

import "time"

// CarrySummary aggregates the outcomes of one carry-forward run across the
// full customer population.
type CarrySummary struct {
	RunID     string    `bson:"run_id" json:"runId"`
	Date      time.Time `bson:"date" json:"date"`
	Processed int       `bson:"processed" json:"processed"`
	Carried   int       `bson:"carried" json:"carried"`
	Updated   int       `bson:"updated" json:"updated"`
	Skipped   int       `bson:"skipped" json:"skipped"`
	Errors    int       `bson:"errors" json:"errors"`
	StartedAt time.Time `bson:"started_at" json:"startedAt"`
	EndedAt   time.Time `bson:"ended_at" json:"endedAt"`
}

// ArchiveSummary reports what a monthly archive run moved.
type ArchiveSummary struct {
	Month    string `bson:"month" json:"month"`
	Archived int    `bson:"archived" json:"archived"`
	Purged   int    `bson:"purged" json:"purged"`
}
