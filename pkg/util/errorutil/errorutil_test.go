package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainErrorUnwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	err := NewInternalError(cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	t.Parallel()
	original := NewForbidden("no")

	mapped := ToDomainError(original)
	if mapped.Code != "FORBIDDEN" || mapped.HTTPStatus != http.StatusForbidden {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}

func TestToDomainErrorMapsSQLNoRows(t *testing.T) {
	t.Parallel()
	mapped := ToDomainError(fmt.Errorf("lookup: %w", sql.ErrNoRows))
	if mapped.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %s", mapped.Code)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	t.Parallel()
	mapped := ToDomainError(errors.New("boom"))
	if mapped.Code != "INTERNAL_ERROR" || mapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}

func TestInvalidTransitionDetails(t *testing.T) {
	t.Parallel()
	err := NewInvalidTransition("ACCEPTED", "CANCELLED")

	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatal("expected DomainError")
	}
	if domainErr.Details["current_status"] != "ACCEPTED" || domainErr.Details["requested_status"] != "CANCELLED" {
		t.Fatalf("unexpected details: %+v", domainErr.Details)
	}
}
