// Package backend opens the case and product collaborators selected by the
// configuration.
package backend

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"

	"github.com/rshade/productsummary/internal/backend/fixture"
	"github.com/rshade/productsummary/internal/backend/grpcapi"
	"github.com/rshade/productsummary/internal/backend/httpapi"
	"github.com/rshade/productsummary/internal/backend/pgcase"
	"github.com/rshade/productsummary/internal/config"
	"github.com/rshade/productsummary/internal/logging"
	"github.com/rshade/productsummary/internal/summary"
)

// Backends holds the opened collaborators. Close releases every connection.
type Backends struct {
	Cases    summary.CaseRecordSource
	Products summary.ProductService

	closers []func() error
}

// Close releases all resources opened by Open.
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// Open builds the collaborators described by cfg. Connections shared by
// both sides (a fixture file, a gRPC channel) are opened once.
func Open(ctx context.Context, cfg config.BackendConfig) (*Backends, error) {
	o := opener{cfg: cfg, b: &Backends{}}

	cases, err := o.cases(ctx)
	if err != nil {
		_ = o.b.Close()
		return nil, err
	}
	products, err := o.products(ctx)
	if err != nil {
		_ = o.b.Close()
		return nil, err
	}
	o.b.Cases = cases
	o.b.Products = products

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "backend").
		Str("cases", cfg.Cases).
		Str("products", cfg.Products).
		Msg("backends opened")
	return o.b, nil
}

type opener struct {
	cfg config.BackendConfig
	b   *Backends

	store *fixture.Store
	grpc  *grpcapi.Client
	http  *httpapi.Client
}

func (o *opener) cases(ctx context.Context) (summary.CaseRecordSource, error) {
	switch o.cfg.Cases {
	case config.KindFixture:
		return o.fixture()
	case config.KindHTTP:
		return o.httpClient(), nil
	case config.KindGRPC:
		return o.grpcClient()
	case config.KindPostgres:
		pool, err := pgcase.Connect(ctx, o.cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		o.b.closers = append(o.b.closers, func() error { pool.Close(); return nil })
		return pgcase.New(pool, o.cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown cases backend %q", o.cfg.Cases)
	}
}

func (o *opener) products(_ context.Context) (summary.ProductService, error) {
	switch o.cfg.Products {
	case config.KindFixture:
		return o.fixture()
	case config.KindHTTP:
		return o.httpClient(), nil
	case config.KindGRPC:
		return o.grpcClient()
	default:
		return nil, fmt.Errorf("unknown products backend %q", o.cfg.Products)
	}
}

func (o *opener) fixture() (*fixture.Store, error) {
	if o.store != nil {
		return o.store, nil
	}
	if o.cfg.FixtureFile == "" {
		o.store = fixture.New()
		return o.store, nil
	}
	store, err := fixture.Load(o.cfg.FixtureFile)
	if err != nil {
		return nil, err
	}
	o.store = store
	return store, nil
}

func (o *opener) httpClient() *httpapi.Client {
	if o.http == nil {
		o.http = httpapi.NewClient(o.cfg.HTTPURL, o.cfg.RequestTimeout)
	}
	return o.http
}

func (o *opener) grpcClient() (*grpcapi.Client, error) {
	if o.grpc != nil {
		return o.grpc, nil
	}
	client, conn, err := grpcapi.Dial(o.cfg.GRPCAddr,
		grpc.WithChainUnaryInterceptor(grpcapi.TimeoutInterceptor(o.cfg.RequestTimeout)))
	if err != nil {
		return nil, err
	}
	o.b.closers = append(o.b.closers, conn.Close)
	o.grpc = client
	return client, nil
}
