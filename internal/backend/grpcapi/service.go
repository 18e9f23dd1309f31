// Package grpcapi exposes case records and product summaries over gRPC.
//
// The service uses protobuf well-known types so no generated code is needed:
//
//	service ProductInfoService {
//	  rpc GetCase(google.protobuf.StringValue) returns (google.protobuf.Struct);
//	  rpc GetProductSummary(google.protobuf.StringValue) returns (google.protobuf.Value);
//	}
//
// GetCase returns {"id": string, "contactId": string | null}. GetProductSummary
// returns a struct value with the ProductSummary JSON field names, or a null
// value when the contact has no product.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Fully qualified names.
const (
	ServiceName             = "productsummary.v1.ProductInfoService"
	GetCaseMethod           = "/" + ServiceName + "/GetCase"
	GetProductSummaryMethod = "/" + ServiceName + "/GetProductSummary"
)

// Payload field names.
const (
	fieldID                  = "id"
	fieldContactID           = "contactId"
	fieldProductName         = "productName"
	fieldMonthlyCost         = "monthlyCost"
	fieldATMFee              = "atmFee"
	fieldCardReplacementCost = "cardReplacementCost"
	fieldCountryCode         = "countryCode"
	fieldIsDefault           = "isDefault"
)

// ProductInfoServer is the server API for ProductInfoService.
type ProductInfoServer interface {
	GetCase(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	GetProductSummary(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Value, error)
}

// RegisterProductInfoServer registers srv with s.
func RegisterProductInfoServer(s grpc.ServiceRegistrar, srv ProductInfoServer) {
	s.RegisterService(&serviceDesc, srv)
}

//nolint:gochecknoglobals // Service descriptors are package-level by convention.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductInfoServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetCase", Handler: getCaseHandler},
		{MethodName: "GetProductSummary", Handler: getProductSummaryHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "productsummary/v1/product_info.proto",
}

func getCaseHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProductInfoServer).GetCase(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetCaseMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProductInfoServer).GetCase(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getProductSummaryHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProductInfoServer).GetProductSummary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetProductSummaryMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProductInfoServer).GetProductSummary(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
