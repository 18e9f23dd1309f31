package summary

import (
	"context"
	"fmt"
)

// CaseRecordSource fetches case records.
type CaseRecordSource interface {
	FetchCase(ctx context.Context, caseID string) (*CaseRecord, error)
}

// ProductService fetches the product summary for a contact.
// A nil summary with a nil error means the contact has no product.
type ProductService interface {
	FetchProductSummary(ctx context.Context, contactID ContactID) (*ProductSummary, error)
}

// CaseRecordSourceFunc adapts a function to CaseRecordSource.
type CaseRecordSourceFunc func(ctx context.Context, caseID string) (*CaseRecord, error)

// FetchCase calls f.
func (f CaseRecordSourceFunc) FetchCase(ctx context.Context, caseID string) (*CaseRecord, error) {
	return f(ctx, caseID)
}

// ProductServiceFunc adapts a function to ProductService.
type ProductServiceFunc func(ctx context.Context, contactID ContactID) (*ProductSummary, error)

// FetchProductSummary calls f.
func (f ProductServiceFunc) FetchProductSummary(ctx context.Context, contactID ContactID) (*ProductSummary, error) {
	return f(ctx, contactID)
}

// guard runs fn and turns a panic into an error so nothing escapes a command.
func guard[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCollaboratorPanic, r)
		}
	}()
	return fn()
}
