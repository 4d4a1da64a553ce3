package app

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func TestShutdown(t *testing.T) {
	var stopped bool
	require.NoError(t, shutdown(time.Second, func(ctx context.Context) {
		stopped = true
	}))
	assert.True(t, stopped)

	release := make(chan struct{})
	defer close(release)

	err := shutdown(10*time.Millisecond, func(ctx context.Context) {
		<-release
	})
	assert.Error(t, err)
}

func TestScheduleLeakRestart(t *testing.T) {
	config := defaultBaseConfig()

	ch, err := scheduleLeakRestart(config)
	require.NoError(t, err)
	select {
	case <-ch:
		t.Fatal("restart fired while disabled")
	default:
	}

	config.EnableMemoryLeakCron = true
	config.MemoryLeakCronSchedule = "not a schedule"
	_, err = scheduleLeakRestart(config)
	assert.Error(t, err)
}

func TestLoadTLSConfig(t *testing.T) {
	config := defaultBaseConfig()

	tlsConfig, err := loadTLSConfig(config)
	require.NoError(t, err)
	assert.Nil(t, tlsConfig)

	config.TLSCertificate = filepath.Join(t.TempDir(), "missing.pem")
	config.TLSKey = "env://SOLFUND_TEST_TLS_KEY"
	_, err = loadTLSConfig(config)
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	o := defaultOpts(logrus.NewEntry(logrus.New()), nil)
	assert.Len(t, o.httpMiddleware, 1)
	assert.Len(t, o.unaryServerInterceptors, 1)
	assert.Len(t, o.streamServerInterceptors, 1)

	passthrough := func(next http.Handler) http.Handler { return next }
	unary := func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		return handler(ctx, req)
	}
	stream := func(srv interface{}, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		return handler(srv, ss)
	}

	for _, option := range []Option{
		WithHTTPMiddleware(passthrough),
		WithUnaryServerInterceptor(unary),
		WithStreamServerInterceptor(stream),
	} {
		option(&o)
	}
	assert.Len(t, o.httpMiddleware, 2)
	assert.Len(t, o.unaryServerInterceptors, 2)
	assert.Len(t, o.streamServerInterceptors, 2)
}

func TestListen(t *testing.T) {
	config := defaultBaseConfig()
	config.ListenAddress = "127.0.0.1:0"
	config.HealthListenAddress = "127.0.0.1:0"

	log := logrus.NewEntry(logrus.New())
	srv, err := listen(config, log, defaultOpts(log, nil), nil)
	require.NoError(t, err)

	srv.http.Handler = http.NotFoundHandler()
	srv.serve(false)

	resp, err := http.Get("http://" + srv.httpLis.Addr().String() + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	srv.stop(ctx)

	<-srv.httpDone
	<-srv.healthDone
}
