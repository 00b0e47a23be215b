package handlers

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/Kerhoff/recipebox/internal/listview"
)

// printResult writes a derived list, one line per item, with group headers
// when the result is grouped.
func printResult[T any](w io.Writer, res listview.Result[T], line func(T) string) {
	if res.Len() == 0 {
		fmt.Fprintln(w, "Nothing to show.")
		return
	}
	if !res.Grouped {
		for _, it := range res.Items {
			fmt.Fprintln(w, line(it))
		}
		return
	}
	for i, g := range res.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", g.Label, len(g.Items))
		for _, it := range g.Items {
			fmt.Fprintln(w, "  "+line(it))
		}
	}
}

// applySort sets the named sort on e, reversed when asked. Unknown names are
// an error listing the valid ones.
func applySort[T any](e *listview.Engine[T], name string, reverse bool, sorts map[string]listview.Sort[T]) error {
	if name == "" {
		return nil
	}
	s, ok := sorts[name]
	if !ok {
		return fmt.Errorf("unknown sort %q (valid: %s)", name, keys(sorts))
	}
	e.SetSort(s)
	if reverse {
		e.ReverseSort()
	}
	return nil
}

func applyGrouping[T any](e *listview.Engine[T], name string, groupings map[string]listview.Grouping[T]) error {
	if name == "" {
		return nil
	}
	g, ok := groupings[name]
	if !ok {
		return fmt.Errorf("unknown grouping %q (valid: %s)", name, keys(groupings))
	}
	e.SetGrouping(g)
	return nil
}

func keys[V any](m map[string]V) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return strings.Join(out, ", ")
}
