package orm

import (
	"bytes"

	"github.com/iov-one/lockbank/errors"
)

// MultiRef is a list of references kept in insertion order. A reference can
// be present only once.
type MultiRef struct {
	Refs [][]byte `json:"refs"`
}

// Append adds the reference at the end of the list and returns its position.
// Returns ErrDuplicate if already there.
func (m *MultiRef) Append(ref []byte) (int, error) {
	if len(ref) == 0 {
		return 0, errors.Wrap(errors.ErrEmpty, "ref")
	}
	if _, found := m.Index(ref); found {
		return 0, errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	m.Refs = append(m.Refs, ref)
	return len(m.Refs) - 1, nil
}

// Index returns the position of the reference and true if it was found.
func (m *MultiRef) Index(ref []byte) (int, bool) {
	for i, r := range m.Refs {
		if bytes.Equal(ref, r) {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of references.
func (m *MultiRef) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Refs)
}

// Validate returns an error if any reference is empty or duplicated.
func (m *MultiRef) Validate() error {
	seen := make(map[string]struct{}, len(m.Refs))
	for i, r := range m.Refs {
		if len(r) == 0 {
			return errors.Wrapf(errors.ErrEmpty, "ref %d", i)
		}
		if _, ok := seen[string(r)]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "ref %d", i)
		}
		seen[string(r)] = struct{}{}
	}
	return nil
}
