// Package grpc exposes the billing services over gRPC. It wires the
// access-token check, per-peer rate limiting and request metrics as unary
// interceptors and publishes the standard health service next to the
// billing service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/billsync/internal/api"
	"github.com/dmitrijs2005/billsync/internal/logging"
	"github.com/dmitrijs2005/billsync/internal/server/models"
	"github.com/dmitrijs2005/billsync/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type userSvc interface {
	Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifierCandidate []byte) (*services.LoginResult, error)
}

type expenseSvc interface {
	Create(ctx context.Context, orgID string, p services.ExpenseParams) (*models.Expense, bool, error)
	List(ctx context.Context, orgID string) ([]*models.Expense, error)
}

type invoiceSvc interface {
	NumberExists(ctx context.Context, orgID, number string) (bool, error)
	Create(ctx context.Context, orgID string, p services.InvoiceParams) (*models.Invoice, error)
}

type GRPCServer struct {
	api.UnimplementedBillingServiceServer
	address   string
	users     userSvc
	expenses  expenseSvc
	invoices  invoiceSvc
	logger    logging.Logger
	jwtSecret []byte
	metrics   *Metrics
	limiter   *peerLimiter
	health    *health.Server
}

// Option tweaks optional parts of the server.
type Option func(*GRPCServer)

// WithMetrics records every unary call into m.
func WithMetrics(m *Metrics) Option {
	return func(s *GRPCServer) { s.metrics = m }
}

// WithRateLimit caps each peer at limit requests per second with the given
// burst. A non-positive limit disables the cap.
func WithRateLimit(limit float64, burst int) Option {
	return func(s *GRPCServer) {
		if limit <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newPeerLimiter(limit, burst)
	}
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, es expenseSvc, is invoiceSvc, secretKey string, opts ...Option) *GRPCServer {
	s := &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		expenses:  es,
		invoices:  is,
		jwtSecret: []byte(secretKey),
		health:    health.NewServer(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *GRPCServer) interceptors() []grpc.UnaryServerInterceptor {
	var chain []grpc.UnaryServerInterceptor
	if s.metrics != nil {
		chain = append(chain, s.metrics.unaryInterceptor)
	}
	if s.limiter != nil {
		chain = append(chain, s.rateLimitInterceptor)
	}
	return append(chain, s.accessTokenInterceptor)
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve runs the server on an existing listener until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.interceptors()...))

	api.RegisterBillingServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
