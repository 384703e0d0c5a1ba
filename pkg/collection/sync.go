package collection

import (
	"cmp"
	"reflect"
	"slices"
	"strings"
)

// Sync reconciles tracked nodes with the caller's current items and orders
// the result per cfg.Sort. It returns a new slice and mutates neither input.
//
// A tracked node is dropped when its handle is nil (including a nil pointer
// stored in the interface), when its key is no longer
// among items, or when it is inactive and cfg.IgnoreInactive is set. Items not
// yet tracked are appended in the order given, subject to the same activity
// filter. Surviving nodes keep their offset and last placement, and pick up
// the caller's current item value for their key.
func Sync(tracked []Node, items []Item, cfg Config) []Node {
	current := make(map[string]Item, len(items))
	for _, it := range items {
		if isNull(it) {
			continue
		}
		if _, ok := current[it.Key()]; !ok {
			current[it.Key()] = it
		}
	}

	usable := func(it Item) bool {
		return it.Active() || !cfg.IgnoreInactive
	}

	out := make([]Node, 0, len(current))
	seen := make(map[string]struct{}, len(current))

	for _, n := range tracked {
		if isNull(n.Item) {
			continue
		}
		key := n.Item.Key()
		it, ok := current[key]
		if !ok || !usable(it) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		n.Item = it
		out = append(out, n)
	}

	for _, it := range items {
		if isNull(it) {
			continue
		}
		key := it.Key()
		if _, ok := seen[key]; ok || !usable(it) {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, newNode(current[key]))
	}

	sortNodes(out, cfg.Sort)
	return out
}

func isNull(it Item) bool {
	if it == nil {
		return true
	}
	v := reflect.ValueOf(it)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func sortNodes(nodes []Node, by SortType) {
	switch by {
	case SortTransform, SortTransformReversed:
		slices.SortStableFunc(nodes, func(a, b Node) int {
			return cmp.Compare(a.Item.SiblingIndex(), b.Item.SiblingIndex())
		})
	case SortAlphabetical, SortAlphabeticalReversed:
		slices.SortStableFunc(nodes, func(a, b Node) int {
			return strings.Compare(a.Name, b.Name)
		})
	}
	// Reversed orders are the ascending sort flipped, so ties reverse too.
	if by == SortTransformReversed || by == SortAlphabeticalReversed {
		slices.Reverse(nodes)
	}
}
