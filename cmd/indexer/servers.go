package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/transport"
	blockinsight7000v1 "github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func serveMetrics(ctx context.Context, addr string, logger *zap.Logger) error {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return serveHTTP(ctx, newHTTPServer(addr, mux), "metrics", logger)
}

// serveStatus runs the gRPC status service and its REST gateway until ctx ends.
func serveStatus(ctx context.Context, grpcAddr, restAddr string, status transport.StatusSource, logger *zap.Logger) error {
	if grpcAddr == "" {
		return nil
	}
	grpcZap.ReplaceGrpcLoggerV2(logger)

	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()
	blockinsight7000v1.RegisterExplorerServiceServer(grpcServer, transport.NewExplorerHandler(status))
	grpcPrometheus.Register(grpcServer)

	socket, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen grpc %s: %w", grpcAddr, err)
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting gRPC server", zap.String("addr", grpcAddr))
		serveErr <- grpcServer.Serve(socket)
	}()
	defer func() {
		logger.Info("shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	if restAddr == "" {
		select {
		case <-ctx.Done():
			return nil
		case err := <-serveErr:
			return fmt.Errorf("grpc server: %w", err)
		}
	}

	gw := gwruntime.NewServeMux()
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if err := blockinsight7000v1.RegisterExplorerServiceHandlerFromEndpoint(ctx, gw, grpcAddr, opts); err != nil {
		return fmt.Errorf("register explorer gateway: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/", gw)
	return serveHTTP(ctx, newHTTPServer(restAddr, cors.Default().Handler(mux)), "rest gateway", logger)
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
}

func serveHTTP(ctx context.Context, s *http.Server, name string, logger *zap.Logger) error {
	go func() {
		<-ctx.Done()
		logger.Info("shutting down http server", zap.String("server", name))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown http server", zap.String("server", name), zap.Error(err))
		}
	}()

	logger.Info("starting http server", zap.String("server", name), zap.String("addr", s.Addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", name, err)
	}
	return nil
}
