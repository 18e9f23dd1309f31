package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rshade/productsummary/internal/backend/fixture"
	"github.com/rshade/productsummary/internal/backend/grpcapi"
	"github.com/rshade/productsummary/internal/backend/httpapi"
	"github.com/rshade/productsummary/internal/config"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// ServeOptions holds the flags of the serve command.
type ServeOptions struct {
	FixtureFile string
	HTTPAddr    string
	GRPCAddr    string
}

func newServeCmd() *cobra.Command {
	var opts ServeOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a fixture file over HTTP and gRPC",
		Long: `Serves case records and product summaries from a YAML fixture file so the
http and grpc backends can be exercised locally. Pass an empty address to
disable a listener.`,
		Example: `  productsummary serve --fixtures fixtures.yaml
  productsummary serve --fixtures fixtures.yaml --grpc-addr ""`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if !cmd.Flags().Changed("fixtures") {
				opts.FixtureFile = cfg.Server.FixtureFile
			}
			if !cmd.Flags().Changed("http-addr") {
				opts.HTTPAddr = cfg.Server.HTTPAddr
			}
			if !cmd.Flags().Changed("grpc-addr") {
				opts.GRPCAddr = cfg.Server.GRPCAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FixtureFile, "fixtures", "", "fixture YAML file (default from config)")
	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", "", "HTTP listen address (default from config)")
	cmd.Flags().StringVar(&opts.GRPCAddr, "grpc-addr", "", "gRPC listen address (default from config)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts ServeOptions) error {
	if opts.HTTPAddr == "" && opts.GRPCAddr == "" {
		return errors.New("nothing to serve: both --http-addr and --grpc-addr are empty")
	}

	store := fixture.New()
	if opts.FixtureFile != "" {
		var err error
		if store, err = fixture.Load(opts.FixtureFile); err != nil {
			return err
		}
	}

	var httpLis, grpcLis net.Listener
	if opts.HTTPAddr != "" {
		lis, err := net.Listen("tcp", opts.HTTPAddr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", opts.HTTPAddr, err)
		}
		httpLis = lis
	}
	if opts.GRPCAddr != "" {
		lis, err := net.Listen("tcp", opts.GRPCAddr)
		if err != nil {
			if httpLis != nil {
				_ = httpLis.Close()
			}
			return fmt.Errorf("listening on %s: %w", opts.GRPCAddr, err)
		}
		grpcLis = lis
	}

	g, ctx := errgroup.WithContext(ctx)

	if httpLis != nil {
		srv := &http.Server{
			Handler:           httpapi.NewRouter(httpapi.NewHandler(store, store, logger)),
			ReadHeaderTimeout: readHeaderTimeout,
		}
		cmd.Printf("HTTP listening on %s\n", httpLis.Addr())
		g.Go(func() error {
			if serveErr := srv.Serve(httpLis); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", serveErr)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if grpcLis != nil {
		srv := grpc.NewServer(grpc.UnaryInterceptor(grpcapi.ServerTraceInterceptor(logger)))
		grpcapi.RegisterProductInfoServer(srv, grpcapi.NewServer(store, store))
		cmd.Printf("gRPC listening on %s\n", grpcLis.Addr())
		g.Go(func() error {
			if serveErr := srv.Serve(grpcLis); serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", serveErr)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			srv.GracefulStop()
			return nil
		})
	}

	logger.Info().Ctx(ctx).
		Str("http_addr", opts.HTTPAddr).
		Str("grpc_addr", opts.GRPCAddr).
		Str("fixtures", opts.FixtureFile).
		Msg("serving fixtures")

	return g.Wait()
}
