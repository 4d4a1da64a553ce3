package app

import (
	"context"
	"crypto/tls"
	"expvar"
	"flag"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"

	metrics_util "github.com/solfund/solfund-server/pkg/metrics"
	"github.com/solfund/solfund-server/pkg/osutil"
)

// App is a long lived service hosted by Run.
//
// Init is called before any listener serves traffic. Stop is called once the
// servers have drained, after which the process exits.
type App interface {
	// Init blocks until the application can serve requests.
	Init(config Config, metricsProvider *newrelic.Application) error

	// RegisterWithHTTP installs the application's handlers.
	RegisterWithHTTP(mux *http.ServeMux)

	// ShutdownChan is closed when the application wants the process to stop.
	ShutdownChan() <-chan struct{}

	// Stop releases the application's resources. It must be idempotent.
	Stop()
}

const (
	debugServerRetryDelay  = 5 * time.Second
	metricsShutdownTimeout = 5 * time.Second
)

var (
	configPath = flag.String("config", "config.yaml", "configuration file path")

	osSigCh = make(chan os.Signal, 1)
)

func init() {
	signal.Notify(osSigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
}

// servers are the listeners Run drives for the lifetime of the process.
type servers struct {
	log *logrus.Entry

	http   *http.Server
	health *grpc.Server

	httpLis   net.Listener
	healthLis net.Listener

	httpDone   chan struct{}
	healthDone chan struct{}
}

// Run hosts app until it, one of its servers, or the process is asked to stop.
func Run(app App, options ...Option) error {
	flag.Parse()

	log := logrus.StandardLogger().WithField("type", "app")

	config, err := loadBaseConfig(*configPath)
	if err != nil {
		return err
	}

	metricsProvider, err := newMetricsProvider(config)
	if err != nil {
		return err
	}
	configureLogger(config, metricsProvider)

	startDebugServer(config, log)

	var ballast []byte
	if config.EnableBallast {
		ballast = make([]byte, uint64(config.BallastCapacity*float32(osutil.GetTotalMemory())))
	}

	leakCh, err := scheduleLeakRestart(config)
	if err != nil {
		return err
	}

	tlsConfig, err := loadTLSConfig(config)
	if err != nil {
		return err
	}

	opts := defaultOpts(log, metricsProvider)
	for _, o := range options {
		o(&opts)
	}

	srv, err := listen(config, log, opts, tlsConfig)
	if err != nil {
		return err
	}

	if err := app.Init(config.AppConfig, metricsProvider); err != nil {
		srv.closeListeners()
		return errors.Wrap(err, "failed to initialize application")
	}

	mux := http.NewServeMux()
	app.RegisterWithHTTP(mux)
	srv.http.Handler = chainMiddleware(mux, opts.httpMiddleware...)
	srv.serve(tlsConfig != nil)

	select {
	case <-osSigCh:
		log.Info("interrupt received, shutting down")
	case <-srv.httpDone:
		log.Info("http server shutdown")
	case <-srv.healthDone:
		log.Info("grpc health server shutdown")
	case <-leakCh:
		log.Info("shutdown to deal with memory leak")
	case <-app.ShutdownChan():
		log.Info("app shutdown")
	}

	err = shutdown(config.ShutdownGracePeriod, func(ctx context.Context) {
		srv.stop(ctx)
		app.Stop()
		if metricsProvider != nil {
			metricsProvider.Shutdown(metricsShutdownTimeout)
		}
	})

	runtime.KeepAlive(ballast)
	return err
}

func newMetricsProvider(config BaseConfig) (*newrelic.Application, error) {
	if config.NewRelicLicenseKey == "" {
		return nil, nil
	}

	nr, err := newrelic.NewApplication(
		newrelic.ConfigFromEnvironment(),
		newrelic.ConfigAppName(config.AppName),
		newrelic.ConfigLicense(config.NewRelicLicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
	return nr, errors.Wrap(err, "error connecting to new relic")
}

// startDebugServer exposes pprof and expvar on a private mux. Both register
// themselves on http.DefaultServeMux, which is replaced so they never leak
// onto a public server.
func startDebugServer(config BaseConfig, log *logrus.Entry) {
	http.DefaultServeMux = http.NewServeMux()

	if !config.EnableExpvar && !config.EnablePprof {
		return
	}

	mux := http.NewServeMux()
	if config.EnableExpvar {
		mux.Handle("/debug/vars", expvar.Handler())
	}
	if config.EnablePprof {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	go func() {
		for {
			err := http.ListenAndServe(config.DebugListenAddress, mux)
			log.WithError(err).Warnf("debug server failed, retrying in %v", debugServerRetryDelay)
			time.Sleep(debugServerRetryDelay)
		}
	}()
}

// scheduleLeakRestart returns a channel closed when the memory leak schedule
// fires. The channel is never closed when the cron is disabled.
func scheduleLeakRestart(config BaseConfig) (<-chan struct{}, error) {
	ch := make(chan struct{})
	if !config.EnableMemoryLeakCron {
		return ch, nil
	}

	c := cron.New(cron.WithLocation(time.Local))
	var once sync.Once
	_, err := c.AddFunc(config.MemoryLeakCronSchedule, func() {
		once.Do(func() { close(ch) })
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize memory leak cron")
	}
	c.Start()
	return ch, nil
}

func loadTLSConfig(config BaseConfig) (*tls.Config, error) {
	if config.TLSCertificate == "" {
		return nil, nil
	}

	certPEM, err := LoadFile(config.TLSCertificate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load tls certificate")
	}
	keyPEM, err := LoadFile(config.TLSKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load tls key")
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, errors.Wrap(err, "invalid certificate/private key")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func defaultOpts(log *logrus.Entry, metricsProvider *newrelic.Application) opts {
	o := opts{
		httpMiddleware: []func(http.Handler) http.Handler{
			loggingMiddleware(log),
		},
		unaryServerInterceptors: []grpc.UnaryServerInterceptor{
			grpc_recovery.UnaryServerInterceptor(),
		},
		streamServerInterceptors: []grpc.StreamServerInterceptor{
			grpc_recovery.StreamServerInterceptor(),
		},
	}
	if metricsProvider != nil {
		o.httpMiddleware = append(o.httpMiddleware, newRelicMiddleware(metricsProvider))
	}
	return o
}

func listen(config BaseConfig, log *logrus.Entry, o opts, tlsConfig *tls.Config) (*servers, error) {
	httpListener, err := net.Listen("tcp", config.ListenAddress)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", config.ListenAddress)
	}

	healthListener, err := net.Listen("tcp", config.HealthListenAddress)
	if err != nil {
		httpListener.Close()
		return nil, errors.Wrapf(err, "failed to listen on %s", config.HealthListenAddress)
	}

	healthServ := grpc.NewServer(
		grpc_middleware.WithUnaryServerChain(o.unaryServerInterceptors...),
		grpc_middleware.WithStreamServerChain(o.streamServerInterceptors...),
	)
	healthgrpc.RegisterHealthServer(healthServ, health.NewServer())

	return &servers{
		log: log,
		http: &http.Server{
			TLSConfig:         tlsConfig,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
		},
		health:     healthServ,
		httpLis:    httpListener,
		healthLis:  healthListener,
		httpDone:   make(chan struct{}),
		healthDone: make(chan struct{}),
	}, nil
}

func (s *servers) closeListeners() {
	s.httpLis.Close()
	s.healthLis.Close()
}

func (s *servers) serve(useTLS bool) {
	go func() {
		defer close(s.httpDone)

		var err error
		if useTLS {
			err = s.http.ServeTLS(s.httpLis, "", "")
		} else {
			err = s.http.Serve(s.httpLis)
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("http serve stopped")
			return
		}
		s.log.Info("http server stopped")
	}()

	go func() {
		defer close(s.healthDone)

		if err := s.health.Serve(s.healthLis); err != nil {
			s.log.WithError(err).Error("grpc health serve stopped")
			return
		}
		s.log.Info("grpc health server stopped")
	}()
}

// stop shuts down both servers regardless of which one triggered shutdown.
func (s *servers) stop(ctx context.Context) {
	if err := s.http.Shutdown(ctx); err != nil {
		s.log.WithError(err).Warn("failed to gracefully shutdown http server")
	}
	s.health.GracefulStop()
}

// shutdown runs stop, giving up once the grace period elapses.
func shutdown(gracePeriod time.Duration, stop func(context.Context)) error {
	ctx, cancel := context.WithTimeout(context.Background(), gracePeriod)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		stop(ctx)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Errorf("failed to stop the application within %v", gracePeriod)
	}
}

func configureLogger(config BaseConfig, metricsProvider *newrelic.Application) {
	var formatter logrus.Formatter = &logrus.JSONFormatter{}
	if metricsProvider != nil {
		formatter = metrics_util.NewLogFormatter(metricsProvider, formatter)
	}
	logrus.SetFormatter(formatter)

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	logrus.SetOutput(os.Stdout)
}
