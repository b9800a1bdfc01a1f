package cart

import "github.com/merrysway/storefront/internal/domain/order"

// Changes summarises how an intended state differs from the last state the
// server confirmed, compared by product name and quantity. It only feeds
// the push log.
type Changes struct {
	Added   []string
	Removed []string
	Changed []string
}

func diffLines(confirmed []Line, intended []order.LineInput) Changes {
	var changes Changes
	want := make(map[string]int, len(intended))
	for _, in := range intended {
		want[in.Name] += in.Quantity
	}
	have := make(map[string]int, len(confirmed))
	for _, l := range confirmed {
		have[l.ProductName] += l.Quantity
	}

	for _, in := range intended {
		qty, ok := have[in.Name]
		switch {
		case !ok:
			changes.Added = append(changes.Added, in.Name)
		case qty != want[in.Name]:
			changes.Changed = append(changes.Changed, in.Name)
		}
	}
	for _, l := range confirmed {
		if _, ok := want[l.ProductName]; !ok {
			changes.Removed = append(changes.Removed, l.ProductName)
		}
	}
	return changes
}
