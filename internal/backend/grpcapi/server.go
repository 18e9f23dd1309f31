package grpcapi

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/rshade/productsummary/internal/summary"
)

// Server adapts summary collaborators to ProductInfoServer.
type Server struct {
	cases    summary.CaseRecordSource
	products summary.ProductService
}

// NewServer returns a Server.
func NewServer(cases summary.CaseRecordSource, products summary.ProductService) *Server {
	return &Server{cases: cases, products: products}
}

// GetCase implements ProductInfoServer.
func (s *Server) GetCase(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	caseID := req.GetValue()
	if caseID == "" {
		return nil, status.Error(codes.InvalidArgument, summary.ErrEmptyCaseID.Error())
	}

	record, err := s.cases.FetchCase(ctx, caseID)
	if err != nil {
		return nil, mapError(err)
	}
	if record == nil {
		return nil, status.Error(codes.NotFound, summary.ErrCaseNotFound.Error())
	}

	fields := map[string]any{fieldID: record.ID, fieldContactID: nil}
	if record.ContactID != nil {
		fields[fieldContactID] = string(*record.ContactID)
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// GetProductSummary implements ProductInfoServer.
func (s *Server) GetProductSummary(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Value, error) {
	contactID := summary.ContactID(req.GetValue())
	if contactID == "" {
		return nil, status.Error(codes.InvalidArgument, summary.ErrEmptyContactID.Error())
	}

	result, err := s.products.FetchProductSummary(ctx, contactID)
	if err != nil {
		return nil, mapError(err)
	}
	if result == nil {
		return structpb.NewNullValue(), nil
	}

	out, err := summaryToStruct(result)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return structpb.NewStructValue(out), nil
}

func summaryToStruct(p *summary.ProductSummary) (*structpb.Struct, error) {
	fields := map[string]any{
		fieldProductName:         p.ProductName,
		fieldMonthlyCost:         p.MonthlyCost,
		fieldATMFee:              nil,
		fieldCardReplacementCost: p.CardReplacementCost,
		fieldCountryCode:         p.CountryCode,
		fieldIsDefault:           p.IsDefault,
	}
	if p.ATMFee != nil {
		fields[fieldATMFee] = *p.ATMFee
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding product summary: %w", err)
	}
	return out, nil
}

// mapError translates sentinel errors into gRPC status codes.
// Unknown errors become codes.Internal.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, summary.ErrCaseNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, summary.ErrEmptyCaseID), errors.Is(err, summary.ErrEmptyContactID):
		return status.Error(codes.InvalidArgument, err.Error())
	}

	return status.Error(codes.Internal, err.Error())
}
