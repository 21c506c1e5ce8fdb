// Command semantria-mock serves the in-memory Semantria API and auth
// endpoints on a local port.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/semantria/semantria-go/internal/common/logtrace"
	"github.com/semantria/semantria-go/internal/fakeservice"
)

type cmdoptions struct {
	port      string
	publicURL string
	delay     time.Duration
	users     []string
	keys      []string
	logLevel  string
	console   bool
}

type listFlag struct{ values *[]string }

func (l listFlag) String() string {
	if l.values == nil {
		return ""
	}
	return strings.Join(*l.values, ",")
}

func (l listFlag) Set(v string) error {
	*l.values = append(*l.values, v)
	return nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	opt := parseFlags()
	level, err := zerolog.ParseLevel(opt.logLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	logtrace.InitLogger(logtrace.LoggerOptions{Level: level, Console: opt.console})
	slog := log.With().Str("state", "init").Logger()

	// .env is optional; it may carry SEMANTRIA_KEY and SEMANTRIA_SECRET.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn().Err(err).Msg("unable to load .env")
	}

	svc := fakeservice.New(
		fakeservice.WithProcessingDelay(opt.delay),
		fakeservice.WithPublicURL(opt.publicURL),
	)
	for _, u := range opt.users {
		name, password, ok := strings.Cut(u, ":")
		if !ok {
			return fmt.Errorf("user %q: expected name:password", u)
		}
		svc.AddUser(name, password)
		slog.Info().Str("user", name).Msg("user registered")
	}
	if key, secret := os.Getenv("SEMANTRIA_KEY"), os.Getenv("SEMANTRIA_SECRET"); key != "" && secret != "" {
		opt.keys = append(opt.keys, key+":"+secret)
	}
	for _, k := range opt.keys {
		key, secret, ok := strings.Cut(k, ":")
		if !ok {
			return fmt.Errorf("api key %q: expected key:secret", k)
		}
		svc.AddAPIKey(key, secret)
		slog.Info().Str("key", key).Msg("api key registered")
	}

	srv := &http.Server{
		Addr:              ":" + opt.port,
		Handler:           svc,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info().Str("port", opt.port).Msg("mock server started")
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")

		// Give outstanding requests 5 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	slog.Info().Msg("server stopped")
	return nil
}

func parseFlags() cmdoptions {
	var opt cmdoptions
	flag.StringVar(&opt.port, "port", "8678", "port to listen on")
	flag.StringVar(&opt.publicURL, "public-url", "", "scheme and host clients sign against, when behind a proxy")
	flag.DurationVar(&opt.delay, "delay", 2*time.Second, "time queued documents stay QUEUED")
	flag.Var(listFlag{&opt.users}, "user", "login accepted by the auth endpoint, name:password (repeatable)")
	flag.Var(listFlag{&opt.keys}, "key", "consumer key for direct signing, key:secret (repeatable)")
	flag.StringVar(&opt.logLevel, "log-level", "info", "log level")
	flag.BoolVar(&opt.console, "console", true, "human readable logs")
	flag.Parse()
	return opt
}
