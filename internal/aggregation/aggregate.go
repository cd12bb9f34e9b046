package aggregation

import "slices"

// LogEntry is one changelog line: a title and every commit that produced it.
type LogEntry struct {
	Title     string
	CommitIDs []string
}

// Category is a sorted view of the entries filed under one category.
type Category struct {
	Name    string // "" for uncategorized entries
	Entries []LogEntry
}

// Section is a sorted view of one label with its categories.
type Section struct {
	Label      string
	Categories []Category
}

// EntryCount returns the number of entries in the section.
func (s Section) EntryCount() int {
	n := 0
	for _, c := range s.Categories {
		n += len(c.Entries)
	}
	return n
}

type categoryBucket struct {
	entries []LogEntry
	byTitle map[string]int
}

type labelBucket struct {
	categories map[string]*categoryBucket
}

// Aggregate holds entries grouped by label and category.
// Entries keep first-seen order; commit IDs keep arrival order.
type Aggregate struct {
	labels map[string]*labelBucket
}

// NewAggregate creates an empty aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{labels: make(map[string]*labelBucket)}
}

// Add files commitID under (label, category, title), merging with an
// existing entry of the same title in that bucket.
func (a *Aggregate) Add(label, category, title, commitID string) {
	lb, ok := a.labels[label]
	if !ok {
		lb = &labelBucket{categories: make(map[string]*categoryBucket)}
		a.labels[label] = lb
	}

	cb, ok := lb.categories[category]
	if !ok {
		cb = &categoryBucket{byTitle: make(map[string]int)}
		lb.categories[category] = cb
	}

	if idx, ok := cb.byTitle[title]; ok {
		cb.entries[idx].CommitIDs = append(cb.entries[idx].CommitIDs, commitID)
		return
	}
	cb.byTitle[title] = len(cb.entries)
	cb.entries = append(cb.entries, LogEntry{Title: title, CommitIDs: []string{commitID}})
}

// Len returns the number of distinct entries.
func (a *Aggregate) Len() int {
	n := 0
	for _, lb := range a.labels {
		for _, cb := range lb.categories {
			n += len(cb.entries)
		}
	}
	return n
}

// Labels returns the labels holding at least one entry, sorted.
func (a *Aggregate) Labels() []string {
	labels := make([]string, 0, len(a.labels))
	for label := range a.labels {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// Sections returns the rendering view: labels and categories in
// lexicographic order, entries in first-seen order. Labels in exclude
// are omitted. The result shares no state with the aggregate.
func (a *Aggregate) Sections(exclude map[string]struct{}) []Section {
	var sections []Section
	for _, label := range a.Labels() {
		if _, skip := exclude[label]; skip {
			continue
		}
		lb := a.labels[label]

		names := make([]string, 0, len(lb.categories))
		for name := range lb.categories {
			names = append(names, name)
		}
		slices.Sort(names)

		section := Section{Label: label, Categories: make([]Category, 0, len(names))}
		for _, name := range names {
			entries := make([]LogEntry, len(lb.categories[name].entries))
			for i, e := range lb.categories[name].entries {
				entries[i] = LogEntry{Title: e.Title, CommitIDs: slices.Clone(e.CommitIDs)}
			}
			section.Categories = append(section.Categories, Category{Name: name, Entries: entries})
		}
		sections = append(sections, section)
	}
	return sections
}
