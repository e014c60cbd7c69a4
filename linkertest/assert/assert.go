/*
Package assert provides the few assertion helpers used across the linker
tests. Helpers fail the test immediately.
*/
package assert

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/bifrost-finance/linker/errors"
)

// Tester is the subset of testing.TB used by the helpers.
type Tester interface {
	Helper()
	Logf(string, ...interface{})
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

var _ Tester = (testing.TB)(nil)

// Nil fails the test if given value is not nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace of errors created by the errors
		// package.
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) (isnil bool) {
	if value == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			isnil = false
		}
	}()
	return reflect.ValueOf(value).IsNil()
}

// Equal fails the test if two values are not deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Len fails the test if the slice does not hold exactly n elements.
func Len(t Tester, n int, slice interface{}) {
	t.Helper()
	v := reflect.ValueOf(slice)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		t.Fatalf("%T is not a slice", slice)
	}
	if v.Len() != n {
		t.Fatalf("want %d elements, got %d: %v", n, v.Len(), slice)
	}
}

// Panics runs fn and fails the test if it did not panic.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// FieldError ensures that given error contains exactly one error for the
// field and that it is of the wanted kind. Use nil as want to ensure that
// the field has no errors.
func FieldError(t Tester, err error, fieldName string, want *errors.Error) {
	t.Helper()

	errs := errors.FieldErrors(err, fieldName)
	if want == nil {
		if len(errs) != 0 {
			for i, e := range errs {
				t.Logf("\terror %d: %q", i+1, e)
			}
			t.Fatalf("expected no error for %q, got %d", fieldName, len(errs))
		}
		return
	}

	switch len(errs) {
	case 0:
		t.Fatalf("no error found for %q", fieldName)
	case 1:
		if !want.Is(errs[0]) {
			t.Fatalf("unexpected error found for %q: %q", fieldName, errs[0])
		}
	default:
		for i, e := range errs {
			t.Logf("\terror %d: %q", i+1, e)
		}
		t.Fatalf("want one error for %q, got %d", fieldName, len(errs))
	}
}

// IsErr checks that got is of the same kind as want. Registered root errors
// are compared with their Is method, other errors with the standard library.
func IsErr(t Tester, want, got error) {
	t.Helper()

	if want == got {
		return
	}
	if kind, ok := want.(*errors.Error); ok {
		if kind.Is(got) {
			return
		}
	} else if want != nil && stderrors.Is(got, want) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
