package study

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator hands out node identifiers. Every call must return a value
// that the generator has not returned before.
type IDGenerator interface {
	NextID() string
}

// IDFunc adapts a function to the IDGenerator interface.
type IDFunc func() string

// NextID calls f.
func (f IDFunc) NextID() string { return f() }

// Counter generates deterministic identifiers: prefix+"1", prefix+"2", ...
// The zero value counts from 1 with an empty prefix.
type Counter struct {
	prefix string
	n      int
}

// NewCounter returns a Counter whose identifiers start with prefix.
func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

// NextID returns the next identifier.
func (c *Counter) NextID() string {
	c.n++
	return c.prefix + strconv.Itoa(c.n)
}

// UUIDs returns a generator of random (version 4) UUID strings.
func UUIDs() IDGenerator {
	return IDFunc(uuid.NewString)
}

var (
	_ IDGenerator = (*Counter)(nil)
	_ IDGenerator = IDFunc(nil)
)
