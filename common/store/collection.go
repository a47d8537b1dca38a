package store

import "github.com/lyzr/patternatlas/common/models"

// collection is an ordered set of entities keyed by discussion number.
// Every mutation builds a new slice so readers holding the old one never see a torn write.
type collection[T models.Record] struct {
	items []T
}

func (c *collection[T]) find(number int) (T, bool) {
	for _, item := range c.items {
		if item.Base().Number == number {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// appendIfAbsent adds item to the end unless its number is already present,
// and returns whichever value is cached afterwards
func (c *collection[T]) appendIfAbsent(item T) T {
	if existing, ok := c.find(item.Base().Number); ok {
		return existing
	}
	next := make([]T, 0, len(c.items)+1)
	next = append(next, c.items...)
	c.items = append(next, item)
	return item
}

// upsert replaces the entry sharing item's number or prepends item.
// It reports whether item was new.
func (c *collection[T]) upsert(item T) bool {
	number := item.Base().Number
	for i, existing := range c.items {
		if existing.Base().Number == number {
			next := make([]T, len(c.items))
			copy(next, c.items)
			next[i] = item
			c.items = next
			return false
		}
	}
	next := make([]T, 0, len(c.items)+1)
	next = append(next, item)
	c.items = append(next, c.items...)
	return true
}

func (c *collection[T]) snapshot() []T {
	return c.items
}
