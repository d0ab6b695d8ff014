// Package collection provides the three container disciplines used for the
// children of a hierarchical node: List (ordered, repeats), Bag (unordered,
// repeats) and Set (unordered, unique).
//
// All kinds iterate in insertion order so that results are stable, but only
// List gives that order a meaning. Occurrence addressing ("the n-th equal
// element") is therefore only honoured by List; Bag and Set collapse every
// occurrence to the first one.
package collection

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Kind identifies a container discipline.
type Kind int

const (
	// List is ordered and allows duplicates.
	List Kind = iota
	// Bag is unordered and allows duplicates.
	Bag
	// Set is unordered and unique.
	Set
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case List:
		return "List"
	case Bag:
		return "Bag"
	case Set:
		return "Set"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "list":
		return List, nil
	case "bag":
		return Bag, nil
	case "set":
		return Set, nil
	}
	return 0, fmt.Errorf("unknown container kind %q", s)
}

// Container holds the children of one node.
type Container[T comparable] struct {
	kind   Kind
	items  []T
	counts map[T]int
}

// New creates an empty container of the given kind.
func New[T comparable](kind Kind) *Container[T] {
	return &Container[T]{kind: kind, counts: make(map[T]int)}
}

// Of creates a container of the given kind holding items, in order.
func Of[T comparable](kind Kind, items ...T) *Container[T] {
	c := New[T](kind)
	for _, it := range items {
		c.Insert(it)
	}
	return c
}

// Kind returns the container discipline.
func (c *Container[T]) Kind() Kind { return c.kind }

// Len returns the number of elements, counting repeats.
func (c *Container[T]) Len() int { return len(c.items) }

// IsEmpty reports whether the container has no elements.
func (c *Container[T]) IsEmpty() bool { return len(c.items) == 0 }

// At returns the element at position i in iteration order.
func (c *Container[T]) At(i int) T { return c.items[i] }

// Items returns a copy of the elements in iteration order.
func (c *Container[T]) Items() []T { return slices.Clone(c.items) }

// All iterates the elements in iteration order.
func (c *Container[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, it := range c.items {
			if !yield(it) {
				return
			}
		}
	}
}

// Contains reports whether x is an element.
func (c *Container[T]) Contains(x T) bool { return c.counts[x] > 0 }

// Count returns how many times x occurs.
func (c *Container[T]) Count(x T) int { return c.counts[x] }

// IndexOf returns the position of the first occurrence of x, or -1.
func (c *Container[T]) IndexOf(x T) int {
	if !c.Contains(x) {
		return -1
	}
	return slices.Index(c.items, x)
}

// IndexOfOccurrence returns the position of the n-th occurrence of x
// (counting from 1), or -1. For n <= 1, and for Bag and Set, it is the first
// occurrence.
func (c *Container[T]) IndexOfOccurrence(x T, n int) int {
	if n <= 1 || c.kind != List {
		return c.IndexOf(x)
	}
	if c.counts[x] < n {
		return -1
	}
	seen := 0
	for i, it := range c.items {
		if it == x {
			seen++
			if seen == n {
				return i
			}
		}
	}
	return -1
}

// Insert appends x. On a Set an existing member is left in place and Insert
// returns false.
func (c *Container[T]) Insert(x T) bool {
	if c.kind == Set && c.Contains(x) {
		return false
	}
	c.items = append(c.items, x)
	c.counts[x]++
	return true
}

// InsertAt inserts x before position i. Only List honours the position;
// the other kinds append.
func (c *Container[T]) InsertAt(i int, x T) bool {
	if c.kind != List {
		return c.Insert(x)
	}
	if i < 0 || i > len(c.items) {
		return false
	}
	c.items = slices.Insert(c.items, i, x)
	c.counts[x]++
	return true
}

// RemoveFirst removes the first occurrence of x.
func (c *Container[T]) RemoveFirst(x T) bool {
	return c.removeAt(c.IndexOf(x))
}

// RemoveNth removes the n-th occurrence of x (see IndexOfOccurrence).
func (c *Container[T]) RemoveNth(x T, n int) bool {
	return c.removeAt(c.IndexOfOccurrence(x, n))
}

// RemoveAll removes every occurrence of x and returns how many were removed.
func (c *Container[T]) RemoveAll(x T) int {
	n := c.counts[x]
	if n == 0 {
		return 0
	}
	c.items = slices.DeleteFunc(c.items, func(it T) bool { return it == x })
	delete(c.counts, x)
	return n
}

// ReplaceFirst replaces the first occurrence of old with x. On a Set this
// is remove-then-insert: when x is already a member, old is only removed.
// It reports whether old was present.
func (c *Container[T]) ReplaceFirst(old, x T) bool {
	return c.replaceAt(c.IndexOf(old), x)
}

// ReplaceNth replaces the n-th occurrence of old with x (see
// IndexOfOccurrence).
func (c *Container[T]) ReplaceNth(old, x T, n int) bool {
	return c.replaceAt(c.IndexOfOccurrence(old, n), x)
}

// ReplaceAll replaces every occurrence of old with x and returns how many
// were replaced.
func (c *Container[T]) ReplaceAll(old, x T) int {
	if old == x {
		return 0
	}
	replaced := 0
	for c.ReplaceFirst(old, x) {
		replaced++
	}
	return replaced
}

// Clone returns a shallow copy with independent storage.
func (c *Container[T]) Clone() *Container[T] {
	cp := &Container[T]{
		kind:   c.kind,
		items:  slices.Clone(c.items),
		counts: make(map[T]int, len(c.counts)),
	}
	for k, v := range c.counts {
		cp.counts[k] = v
	}
	return cp
}

func (c *Container[T]) removeAt(i int) bool {
	if i < 0 || i >= len(c.items) {
		return false
	}
	x := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	c.decr(x)
	return true
}

func (c *Container[T]) replaceAt(i int, x T) bool {
	if i < 0 || i >= len(c.items) {
		return false
	}
	old := c.items[i]
	if old == x {
		return true
	}
	if c.kind == Set && c.Contains(x) {
		return c.removeAt(i)
	}
	c.items[i] = x
	c.decr(old)
	c.counts[x]++
	return true
}

func (c *Container[T]) decr(x T) {
	if c.counts[x] <= 1 {
		delete(c.counts, x)
		return
	}
	c.counts[x]--
}
