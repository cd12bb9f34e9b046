package aggregation

import (
	"github.com/masmgr/changelog-go/internal/commitmsg"
	"github.com/masmgr/changelog-go/internal/git"
)

// Aggregator parses commits and folds them into an Aggregate.
type Aggregator struct {
	parser *commitmsg.Parser
	result *Aggregate

	kept       int
	dropped    int
	suppressed int
}

// NewAggregator creates an aggregator classifying commits with parser.
func NewAggregator(parser *commitmsg.Parser) *Aggregator {
	return &Aggregator{
		parser: parser,
		result: NewAggregate(),
	}
}

// Add parses one commit and files it. It reports whether the commit
// produced (or extended) an entry.
func (a *Aggregator) Add(rec git.CommitRecord) bool {
	parsed := a.parser.Parse(rec.Subject)
	if !parsed.Keep() {
		if parsed.Suppress {
			a.suppressed++
		}
		a.dropped++
		return false
	}

	a.result.Add(parsed.Label, parsed.Category, parsed.Title, rec.ID)
	a.kept++
	return true
}

// Process adds every record in order and returns the aggregate.
func (a *Aggregator) Process(records []git.CommitRecord) *Aggregate {
	for _, rec := range records {
		a.Add(rec)
	}
	return a.result
}

// Result returns the aggregate built so far.
func (a *Aggregator) Result() *Aggregate {
	return a.result
}

// Kept returns the number of commits that produced entries.
func (a *Aggregator) Kept() int {
	return a.kept
}

// Dropped returns the number of commits that produced no entry,
// including suppressed ones.
func (a *Aggregator) Dropped() int {
	return a.dropped
}

// Suppressed returns the number of commits dropped by the ignore flag.
func (a *Aggregator) Suppressed() int {
	return a.suppressed
}
