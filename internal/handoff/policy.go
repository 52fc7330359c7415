package handoff

import "strings"

// Policy selects which pending task the drain loop dequeues next.
type Policy int

const (
	// FIFO delivers the oldest pending task first.
	FIFO Policy = iota
	// LIFO delivers the most recently enqueued task first.
	LIFO
)

func (p Policy) String() string {
	switch p {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return "unknown"
	}
}

// Valid reports whether p is a known ordering policy.
func (p Policy) Valid() bool {
	return p == FIFO || p == LIFO
}

// ParsePolicy maps a config string to a Policy, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	default:
		return FIFO, ErrInvalidPolicy
	}
}

// selectIndex computes the position of the next candidate in a pending
// sequence of length n under the given policy. Returns -1 when empty.
// Kept a pure function so ordering behavior is testable in isolation.
func selectIndex(n int, p Policy) int {
	if n == 0 {
		return -1
	}
	if p == LIFO {
		return n - 1
	}
	return 0
}
