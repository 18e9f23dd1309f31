package grpcapi

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/rshade/productsummary/internal/fee"
	"github.com/rshade/productsummary/internal/summary"
)

// Client calls ProductInfoService. It implements both
// summary.CaseRecordSource and summary.ProductService.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an existing connection.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial connects to addr without TLS and returns the client with its
// connection, which the caller must close.
func Dial(addr string, opts ...grpc.DialOption) (*Client, *grpc.ClientConn, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(TraceInterceptor()),
	}
	conn, err := grpc.NewClient(addr, append(base, opts...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return NewClient(conn), conn, nil
}

// FetchCase implements summary.CaseRecordSource.
func (c *Client) FetchCase(ctx context.Context, caseID string) (*summary.CaseRecord, error) {
	if caseID == "" {
		return nil, summary.ErrEmptyCaseID
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, GetCaseMethod, wrapperspb.String(caseID), out); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("case %q: %w", caseID, summary.ErrCaseNotFound)
		}
		return nil, fmt.Errorf("GetCase RPC failed: %w", err)
	}

	fields := out.GetFields()
	record := &summary.CaseRecord{ID: fields[fieldID].GetStringValue()}
	if record.ID == "" {
		record.ID = caseID
	}
	if v, ok := fields[fieldContactID]; ok {
		if id := v.GetStringValue(); id != "" {
			contactID := summary.ContactID(id)
			record.ContactID = &contactID
		}
	}
	return record, nil
}

// FetchProductSummary implements summary.ProductService.
func (c *Client) FetchProductSummary(ctx context.Context, contactID summary.ContactID) (*summary.ProductSummary, error) {
	if contactID == "" {
		return nil, summary.ErrEmptyContactID
	}

	out := new(structpb.Value)
	if err := c.conn.Invoke(ctx, GetProductSummaryMethod, wrapperspb.String(string(contactID)), out); err != nil {
		return nil, fmt.Errorf("GetProductSummary RPC failed: %w", err)
	}

	st := out.GetStructValue()
	if st == nil {
		return nil, nil //nolint:nilnil // Null value means no product.
	}
	return structToSummary(st), nil
}

func structToSummary(st *structpb.Struct) *summary.ProductSummary {
	fields := st.GetFields()
	p := &summary.ProductSummary{
		ProductName:         fields[fieldProductName].GetStringValue(),
		MonthlyCost:         fields[fieldMonthlyCost].GetNumberValue(),
		CardReplacementCost: fields[fieldCardReplacementCost].GetNumberValue(),
		CountryCode:         fields[fieldCountryCode].GetStringValue(),
		IsDefault:           fields[fieldIsDefault].GetBoolValue(),
	}
	if v, ok := fields[fieldATMFee]; ok {
		if f, ok := fee.ToFloat(v.AsInterface()); ok {
			p.ATMFee = &f
		}
	}
	return p
}
