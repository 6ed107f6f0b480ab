package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ValentinKolb/hKV/lib/command"
	"github.com/ValentinKolb/hKV/lib/service"
	"github.com/ValentinKolb/hKV/lib/store"
	"github.com/ValentinKolb/hKV/rpc/common"
	"github.com/ValentinKolb/hKV/rpc/serializer"
	"github.com/ValentinKolb/hKV/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"golang.org/x/sync/errgroup"
)

var Logger = logger.GetLogger("rpc/server")

// MetricsPath is the route of the prometheus endpoint of the metrics server
const MetricsPath = "/metrics"

// RPCServer connects a transport and a serializer to a service over the configured storage
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	metrics    *metrics.Set
	duration   *metrics.Histogram
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPDefaultServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(ctx); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	set := metrics.NewSet()
	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		metrics:    set,
		duration:   set.GetOrCreateHistogram("hkv_request_duration_seconds"),
	}
}

// Metrics returns the metrics set of the server
func (s *RPCServer) Metrics() *metrics.Set {
	return s.metrics
}

// Serve opens the storage and serves requests until ctx is cancelled or the
// transport (or metrics server) fails. The storage is closed before Serve returns.
func (s *RPCServer) Serve(ctx context.Context) error {
	Logger.Infof("Starting RPC Server")
	Logger.Infof("%s", s.config.String())

	storage, err := OpenStorage(s.config.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	svc := s.newService(storage)
	s.transport.RegisterHandler(func(req []byte, reply func([]byte) error) error {
		return s.handle(svc, req, reply)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.transport.Listen(gctx, s.config)
	})
	if s.config.MetricsEndpoint != "" {
		g.Go(func() error {
			return s.serveMetrics(gctx)
		})
	}

	err = g.Wait()
	if closeErr := storage.Close(); closeErr != nil {
		Logger.Errorf("Failed to close storage: %v", closeErr)
		err = errors.Join(err, closeErr)
	}
	Logger.Infof("RPC Server stopped")
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// newService builds the service with the log and metrics hooks
func (s *RPCServer) newService(storage store.Storage) *service.Service {
	logHook := service.NewLogHook(logger.GetLogger("service"))
	metricsHook := service.NewMetricsHook(s.metrics)

	return service.New(storage).
		OnReceived(logHook, metricsHook).
		OnExecuted(logHook, metricsHook).
		OnAfterSend(metricsHook).
		Build()
}

// handle decodes one request, runs it through the service and replies with the
// encoded response. A request that can not be decoded is a protocol error.
func (s *RPCServer) handle(svc *service.Service, data []byte, reply func([]byte) error) error {
	var req command.Request
	if err := s.serializer.DeserializeRequest(data, &req); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}

	start := time.Now()
	defer s.duration.UpdateDuration(start)

	return svc.Handle(&req, func(resp *command.Response) error {
		out, err := s.serializer.SerializeResponse(resp)
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		return reply(out)
	})
}

// serveMetrics runs the metrics http server until ctx is cancelled
func (s *RPCServer) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+MetricsPath, func(w http.ResponseWriter, _ *http.Request) {
		s.metrics.WritePrometheus(w)
		metrics.WriteProcessMetrics(w)
	})

	listener, err := net.Listen("tcp", s.config.MetricsEndpoint)
	if err != nil {
		return fmt.Errorf("failed to create metrics listener: %w", err)
	}

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	Logger.Infof("Serving metrics on %s%s", s.config.MetricsEndpoint, MetricsPath)
	if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
