package orm

import (
	"fmt"
	"testing"

	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/weavetest/assert"
)

func TestMultiRefAppend(t *testing.T) {
	cases := []struct {
		items        []string
		expectErrors int
		expectOrder  []string
	}{
		{[]string{"add", "more", "text"}, 0, []string{"add", "more", "text"}},
		{[]string{"out", "of", "order"}, 0, []string{"out", "of", "order"}},
		{[]string{"dup", "dup", "abc", "fud", "fud", "dup"}, 3, []string{"dup", "abc", "fud"}},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			m := new(MultiRef)
			errCount := 0
			for _, item := range tc.items {
				pos, err := m.Append([]byte(item))
				if err != nil {
					assert.IsErr(t, errors.ErrDuplicate, err)
					errCount++
					continue
				}
				got, found := m.Index([]byte(item))
				assert.Equal(t, true, found)
				assert.Equal(t, pos, got)
			}
			assert.Equal(t, tc.expectErrors, errCount)
			assert.Equal(t, len(tc.expectOrder), m.Len())
			for i, want := range tc.expectOrder {
				assert.Equal(t, []byte(want), m.Refs[i])
			}
			assert.Nil(t, m.Validate())
		})
	}
}

func TestMultiRefValidate(t *testing.T) {
	m := &MultiRef{Refs: [][]byte{[]byte("a"), []byte("a")}}
	assert.IsErr(t, errors.ErrDuplicate, m.Validate())

	m = &MultiRef{Refs: [][]byte{nil}}
	assert.IsErr(t, errors.ErrEmpty, m.Validate())

	var empty *MultiRef
	assert.Equal(t, 0, empty.Len())

	_, err := new(MultiRef).Append(nil)
	assert.IsErr(t, errors.ErrEmpty, err)
}
