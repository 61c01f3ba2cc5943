package models

import "fmt"

// Counter backs the per-project sequence generator that stamps human-readable
// numbers like BUG-042 and TC-011. Rows are only ever touched through
// services.SequenceService.Next; never read or write them directly.
type Counter struct {
	Key string `gorm:"primaryKey;size:100"` // "{projectID}_{kind}"
	Seq int    `gorm:"not null;default:0"`
}

func (Counter) TableName() string { return "counters" }

const (
	CounterKindBugs      = "bugs"
	CounterKindTestCases = "testcases"
)

// CounterKey builds the natural key for a (project, entity kind) pair.
func CounterKey(projectID uint, kind string) string {
	return fmt.Sprintf("%d_%s", projectID, kind)
}
