package board

import (
	"context"
	"sort"

	"today/internal/task"
)

// Count is a label with the number of tasks carrying it.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Counts are the sidebar numbers, computed from the store rather than hard-coded.
type Counts struct {
	Today     int     `json:"today"`
	Completed int     `json:"completed"`
	Lists     []Count `json:"lists"`
	Tags      []Count `json:"tags"`
}

// Counts tallies the stored tasks. Configured lists always appear, in configured order,
// followed by any other list names found on tasks. A list configured twice shows once.
// Tags are sorted by name.
func (b *Board) Counts(ctx context.Context) (Counts, error) {
	tasks, err := b.store.List(ctx)
	if err != nil {
		return Counts{}, err
	}
	return tally(tasks, b.lists), nil
}

func tally(tasks []task.Task, lists []string) Counts {
	c := Counts{Today: len(tasks)}
	byList := map[string]int{}
	byTag := map[string]int{}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
		if t.List != "" {
			byList[t.List]++
		}
		if t.Tag != "" {
			byTag[t.Tag]++
		}
	}

	known := map[string]bool{}
	for _, name := range lists {
		if known[name] {
			continue
		}
		known[name] = true
		c.Lists = append(c.Lists, Count{Name: name, Count: byList[name]})
	}
	var extra []string
	for name := range byList {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		c.Lists = append(c.Lists, Count{Name: name, Count: byList[name]})
	}

	tags := make([]string, 0, len(byTag))
	for name := range byTag {
		tags = append(tags, name)
	}
	sort.Strings(tags)
	for _, name := range tags {
		c.Tags = append(c.Tags, Count{Name: name, Count: byTag[name]})
	}
	return c
}
