package app

import (
	"net/http"

	"google.golang.org/grpc"
)

// Option configures the environment run by Run().
type Option func(o *opts)

type opts struct {
	httpMiddleware           []func(http.Handler) http.Handler
	unaryServerInterceptors  []grpc.UnaryServerInterceptor
	streamServerInterceptors []grpc.StreamServerInterceptor
}

// WithHTTPMiddleware wraps the app's HTTP handlers with the provided
// middleware.
//
// Middleware is applied in addition order, inside the app's default
// middleware.
func WithHTTPMiddleware(middleware func(http.Handler) http.Handler) Option {
	return func(o *opts) {
		o.httpMiddleware = append(o.httpMiddleware, middleware)
	}
}

// WithUnaryServerInterceptor configures the health gRPC server to use the
// provided interceptor.
func WithUnaryServerInterceptor(interceptor grpc.UnaryServerInterceptor) Option {
	return func(o *opts) {
		o.unaryServerInterceptors = append(o.unaryServerInterceptors, interceptor)
	}
}

// WithStreamServerInterceptor configures the health gRPC server to use the
// provided interceptor.
func WithStreamServerInterceptor(interceptor grpc.StreamServerInterceptor) Option {
	return func(o *opts) {
		o.streamServerInterceptors = append(o.streamServerInterceptors, interceptor)
	}
}
