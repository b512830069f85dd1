package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	cause := errors.New("connection reset")
	dbErr := DatabaseError("insert failed", cause)

	if got := Code(dbErr); got != CodeDatabaseError {
		t.Errorf("expected %s, got %s", CodeDatabaseError, got)
	}

	// The code survives further wrapping.
	wrapped := fmt.Errorf("archiving run: %w", dbErr)
	if got := Code(wrapped); got != CodeDatabaseError {
		t.Errorf("expected %s through wrapping, got %s", CodeDatabaseError, got)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("cause lost from the error chain")
	}

	if got := Code(errors.New("plain")); got != CodeInternalError {
		t.Errorf("expected %s for an uncoded error, got %s", CodeInternalError, got)
	}
}

func TestAppError_Error(t *testing.T) {
	withCause := DatabaseError("insert failed", errors.New("reset"))
	if got := withCause.Error(); got != "insert failed: reset" {
		t.Errorf("unexpected message %q", got)
	}

	bare := &AppError{Code: CodeInternalError, Message: "oops"}
	if got := bare.Error(); got != "oops" {
		t.Errorf("unexpected message %q", got)
	}
}
