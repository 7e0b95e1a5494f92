/*
Package assert provides the small set of assertions shared by lockbank tests.
Every helper stops the test on the first failure.
*/
package assert

import (
	"reflect"

	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
)

// Tester is the part of testing.TB used by the assertions.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// Nil fails the test if given value is not nil. Errors are printed with %+v
// so that a stack trace is visible.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		if v.IsNil() {
			return
		}
	}
	t.Fatalf("want nil, got %+v", value)
}

// Equal fails the test if two values are not deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Coin fails the test if the coin does not hold exactly the wanted amount.
func Coin(t Tester, want uint64, got coin.Coin) {
	t.Helper()
	if got.Amount != want {
		t.Fatalf("want %d coins, got %s", want, got)
	}
}

// Panics fails the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	var panicked bool
	func() {
		defer func() { panicked = recover() != nil }()
		fn()
	}()
	if !panicked {
		t.Fatal("panic expected")
	}
}

// IsErr fails the test unless got is of the registered error kind want.
// A nil want accepts only a nil error.
func IsErr(t Tester, want *errors.Error, got error) {
	t.Helper()
	if want == nil {
		if got != nil {
			t.Fatalf("want no error, got %+v", got)
		}
		return
	}
	if !want.Is(got) {
		t.Fatalf("want %q error, got %+v", want, got)
	}
}

// FieldError fails the test unless err carries a field error for fieldName
// of the given kind. A nil want asserts that no error was reported for the
// field.
func FieldError(t Tester, err error, fieldName string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, fieldName)
	if want == nil {
		if len(errs) != 0 {
			t.Fatalf("want no %q field error, got %q", fieldName, errs)
		}
		return
	}
	for _, e := range errs {
		if want.Is(e) {
			return
		}
	}
	for i, e := range errs {
		t.Logf("\t%q error %d: %q", fieldName, i+1, e)
	}
	t.Fatalf("no %q field error of kind %q", fieldName, want)
}
