package db

import (
	"errors"
	"testing"
)

func TestError_WrapsCause(t *testing.T) {
	err := error(&Error{Op: OpGet, Err: ErrKeyNotFound})

	if got := err.Error(); got != "GET: db: key not found" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrKeyNotFound) {
		t.Error("errors.Is should see the wrapped sentinel")
	}
	var dbErr *Error
	if !errors.As(err, &dbErr) || dbErr.Op != OpGet {
		t.Errorf("errors.As: %+v", dbErr)
	}
}
