/*
Webapi is the executable for the main web server.
It connects to the external resources needed (the SQLite database) and starts the API web server,
exposing the account, friendship, chat, scam report and admin endpoints.

Usage:

	webapi [flags]

Flags and configurations are handled by the code in `load-configuration.go`.

Return values (exit codes):

	0
		The program ended successfully (no errors, stopped by signal)

	> 0
		The program ended due to an error

Note that this program will create the database file, along with its schema, on first launch.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/admin"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/auth"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/chat"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/relations"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/reports"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/rest"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/storage/sqlite"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/users"
	"github.com/sirupsen/logrus"
)

// main is the program entry point. The only purpose of this function is to call run() and set the exit code if there is
// any error
func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: ", err)
		os.Exit(1)
	}
}

// run executes the program. The body of this function should perform the following steps:
// * reads the configuration
// * creates and configures the logger
// * connects to any external resources (like databases, authenticators, etc.)
// * registers the API handlers
// * starts the principal web server
// * waits for any termination event: SIGTERM signal (UNIX), non-recoverable server error, etc.
// * closes the principal web server
func run() error {
	// Load Configuration and defaults
	cfg, err := loadConfiguration()
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil
		}
		return err
	}

	// Init logging
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Infof("application initializing")

	// initialise the database before registering handlers for an immediate exit in case of issues
	storage, err := sqlite.New(logger, cfg.DB.Filename)
	if err != nil {
		logger.WithError(err).Error("error initialising storage")
		return fmt.Errorf("error while initialising storage: %w", err)
	}
	defer storage.Close()

	// Start (main) API server
	logger.Info("initializing API server")

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	e, err := rest.New(rest.Config{
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Error("error creating the API server instance")
		return fmt.Errorf("creating the API server instance: %w", err)
	}

	e.Use(e.RequestLogger())

	// setup repositories and session signing
	var signer = auth.NewSigner(cfg.Session.Secret, cfg.Session.TTL)
	var authRepository = auth.NewRepository(storage.Connection)
	var usersRepository = users.NewRepository(storage.Connection)
	var relationsRepository = relations.NewRepository(storage.Connection)
	var chatRepository = chat.NewRepository(storage.Connection)
	var reportsRepository = reports.NewRepository(storage.Connection)
	var adminRepository = admin.NewRepository(storage.Connection)

	users.RegisterHandlers(e, usersRepository, authRepository, signer)
	relations.RegisterHandlers(e, relationsRepository, authRepository, signer)
	chat.RegisterHandlers(e, chatRepository, authRepository, signer)
	reports.RegisterHandlers(e, reportsRepository, authRepository, signer)
	admin.RegisterHandlers(e, adminRepository, authRepository, signer)

	// Apply CORS policy
	handler := applyCORSHandler(e.Handler())

	// create the API server
	server := http.Server{
		Addr:              cfg.Web.APIHost,
		Handler:           handler,
		ReadTimeout:       cfg.Web.ReadTimeout,
		ReadHeaderTimeout: cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
	}

	// Start the service listening for requests in a separate goroutine
	go func() {
		logger.Infof("API listening on %s", server.Addr)
		serverErrors <- server.ListenAndServe()
		logger.Infof("stopping API server")
	}()

	// Waiting for shutdown signal or POSIX signals
	select {
	case err := <-serverErrors:
		// Non-recoverable server error
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and load shed.
		err = server.Shutdown(ctx)
		if err != nil {
			logger.WithError(err).Warning("error during graceful shutdown of HTTP server")
			err = server.Close()
		}

		if err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
