package grpc

import (
	"net"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type App struct {
	srv    *grpc.Server
	status *health.Server
}

func NewGrpc() *App {
	server := &App{
		srv:    grpc.NewServer(),
		status: health.NewServer(),
	}

	healthpb.RegisterHealthServer(server.srv, server.status)
	reflection.Register(server.srv)

	return server
}

// SetServing flips the reported health of the whole service.
func (v *App) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	v.status.SetServingStatus("", status)
}

func (v *App) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}

	v.SetServing(true)
	log.Info().Str("bind", viper.GetString("grpc_bind")).Msg("gRPC server is listening...")
	return v.srv.Serve(listener)
}

func (v *App) Stop() {
	v.SetServing(false)
	v.srv.GracefulStop()
}
