package cleaning

import (
	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
)

// Journal is the ordered, append-only issue log of one table's cleaning run.
type Journal struct {
	table   string
	entries []dataset.Issue
}

// NewJournal starts an empty journal for table.
func NewJournal(table string) *Journal {
	return &Journal{table: table}
}

// Record appends an issue; the action taken comes from the issue type's policy.
func (j *Journal) Record(recordID string, issueType enums.IssueType, detail string) {
	j.entries = append(j.entries, dataset.Issue{
		Table:            j.table,
		RecordIdentifier: recordID,
		IssueType:        issueType,
		IssueDetail:      detail,
		ActionTaken:      PolicyFor(issueType).Action.Taken(),
	})
}

// Table returns the table this journal belongs to.
func (j *Journal) Table() string {
	return j.table
}

// Len returns the number of recorded issues.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Entries returns a copy of the recorded issues in insertion order.
func (j *Journal) Entries() []dataset.Issue {
	return append([]dataset.Issue(nil), j.entries...)
}

// CountByType tallies recorded issues per issue type.
func CountByType(issues []dataset.Issue) map[enums.IssueType]int {
	counts := make(map[enums.IssueType]int)
	for _, issue := range issues {
		counts[issue.IssueType]++
	}
	return counts
}

// CountByTable tallies issues per source table.
func CountByTable(issues []dataset.Issue) map[string]int {
	counts := make(map[string]int)
	for _, issue := range issues {
		counts[issue.Table]++
	}
	return counts
}
