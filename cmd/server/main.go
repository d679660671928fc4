package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/technokuro/novelBuilder/accounts"
	"github.com/technokuro/novelBuilder/auth/google"
	"github.com/technokuro/novelBuilder/internal/config"
	"github.com/technokuro/novelBuilder/server"
	"github.com/technokuro/novelBuilder/token"
	"github.com/technokuro/novelBuilder/token/longtoken"
	"github.com/technokuro/novelBuilder/token/revoked"
	"github.com/technokuro/novelBuilder/token/session"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if c.GetEnv() == "development" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, c.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	signer, err := token.NewHMACSigner(c.GetTokenKey(), c.GetTokenAlgorithm())
	if err != nil {
		return fmt.Errorf("token.NewHMACSigner: %w", err)
	}

	revokedRepo := newRevokedRepo(c, pool, logger)
	sessions := session.NewManager(token.NewEnvelope(signer), revokedRepo, c, logger)
	longTokens := longtoken.NewManager(longtoken.NewPostgresRepo(pool), c.GetLongTokenTTL(), logger)

	googleProvider, err := newGoogleProvider(ctx, c)
	if err != nil {
		return fmt.Errorf("google provider: %w", err)
	}

	srv, err := server.New(c, server.Deps{
		Sessions:   sessions,
		LongTokens: longTokens,
		Accounts:   accounts.NewPostgresRepo(pool),
		Google:     googleProvider,
	}, logger)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// newRevokedRepo prefers Redis for the revocation list when an address
// is configured, falling back to Postgres otherwise.
func newRevokedRepo(c config.Config, pool *pgxpool.Pool, logger zerolog.Logger) revoked.Repo {
	if addr := c.GetRedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: c.GetRedisPassword(),
		})
		return revoked.NewRedisRepo(client)
	}
	return revoked.NewPostgresRepo(pool, logger)
}

// newGoogleProvider returns nil when Google login is not configured,
// which disables the oauth routes.
func newGoogleProvider(ctx context.Context, c config.Config) (*google.Provider, error) {
	if c.GetGoogleClientID() == "" {
		return nil, nil
	}
	return google.New(ctx, c.GetGoogleClientID(), c.GetGoogleClientSecret(), c.GetGoogleRedirectURL())
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
