// Package commands implements the airportctl command tree.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IsaacT30/airport-console/api"
	"github.com/IsaacT30/airport-console/config"
	"github.com/IsaacT30/airport-console/core/auth/session"
	"github.com/IsaacT30/airport-console/core/validator"
	"github.com/IsaacT30/airport-console/errors"
	"github.com/IsaacT30/airport-console/log"
	"github.com/IsaacT30/airport-console/metrics"
)

const appName = "airportctl"

// Execute runs the command tree.
func Execute() error {
	return rootCmd().Execute()
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Admin console for the airport backends",
		Long: appName + ` manages an operator session against the airport auth
service and drives the flight-operations resources: flights, bookings,
passengers, airlines, airports, crew and maintenance.

Credentials persist between invocations; expired access tokens are
renewed transparently and you are only asked to log in again when the
whole session has lapsed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (YAML)")

	open := func(cmd *cobra.Command) (*console, error) {
		return newConsole(cmd.Context(), configPath)
	}

	cmd.AddCommand(
		loginCmd(open),
		logoutCmd(open),
		registerCmd(open),
		whoamiCmd(open),
		resourceCmd(open, "flights", "flight",
			func(c *api.Client) crudder { return typed[api.Flight]{c.Flights} },
			setStatusCmd(open)),
		resourceCmd(open, "bookings", "booking",
			func(c *api.Client) crudder { return typed[api.Booking]{c.Bookings} }),
		resourceCmd(open, "passengers", "passenger",
			func(c *api.Client) crudder { return typed[api.Passenger]{c.Passengers} }),
		resourceCmd(open, "airlines", "airline",
			func(c *api.Client) crudder { return typed[api.Airline]{c.Airlines} }),
		resourceCmd(open, "airports", "airport",
			func(c *api.Client) crudder { return typed[api.Airport]{c.Airports} }),
		resourceCmd(open, "crew", "crew member",
			func(c *api.Client) crudder { return typed[api.CrewMember]{c.Crew} }),
		resourceCmd(open, "maintenance", "maintenance record",
			func(c *api.Client) crudder { return typed[api.MaintenanceRecord]{c.Maintenance} }),
	)

	return cmd
}

type opener func(*cobra.Command) (*console, error)

// console bundles everything a command needs: configuration, the service
// clients and the session controller.
type console struct {
	cfg     *config.App
	logger  *log.Logger
	store   session.Store
	client  *api.Client
	session *session.Controller

	out     io.Writer
	errOut  io.Writer
	closers []func() error
}

func (c *console) println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) errln(args ...any) {
	fmt.Fprintln(c.errOut, args...)
}

// printJSON renders a record or collection for the terminal.
func (c *console) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Internal("cannot render response: %v", err)
	}
	c.println(string(data))
	return nil
}

// authorize hydrates the session and checks the operator's role against
// the action. Unknown and absent roles fail closed.
func (c *console) authorize(ctx context.Context, verb string, allowed func(session.Role) bool) error {
	identity, err := c.session.Hydrate(ctx)
	if err != nil {
		return err
	}
	if identity == nil {
		return errors.Unauthorized("not signed in; run '%s login'", appName)
	}
	if role := session.ResolveRole(identity); !allowed(role) {
		return errors.Forbidden("role %s is not allowed to %s", role, verb)
	}
	return nil
}

func newConsole(ctx context.Context, configPath string) (*console, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	log.SetGlobalLogger(logger)

	store, closeStore, err := newStore(ctx, cfg.Storage)
	if err != nil {
		logger.Close()
		return nil, err
	}

	client, err := api.NewClient(api.ClientConfig{
		AuthURL:             cfg.Services.AuthURL,
		OpsURL:              cfg.Services.OpsURL,
		Timeout:             cfg.Services.Timeout,
		Store:               store,
		DeduplicateRenewals: cfg.Renewal.Deduplicate,
		Logger:              logger,
		Metrics:             metrics.Default,
	})
	if err != nil {
		closeStore()
		logger.Close()
		return nil, err
	}

	controller := session.NewController(store, client.Auth,
		session.WithLogger(logger),
		session.WithMetrics(metrics.Default),
	)
	client.Renewer.OnInvalidated(controller.Invalidate)

	c := &console{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		client:  client,
		session: controller,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
	c.closers = append(c.closers, func() error { closeStore(); return nil }, logger.Close)

	// A lapsed session cannot be recovered without credentials; tell the
	// operator instead of failing silently.
	controller.OnInvalidated(func() {
		c.errln("Session expired. Run '" + appName + " login' to sign in again.")
	})

	return c, nil
}

func (c *console) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Warn().Err(err).Msg("cleanup failed")
		}
	}
}

func loadConfig(configPath string) (*config.App, error) {
	cfg := new(config.App)

	var opts []config.Option
	if configPath != "" {
		dir, name := filepath.Split(configPath)
		if dir == "" {
			dir = "."
		}
		v := viper.New()
		opts = append(opts,
			config.WithViper(v),
			config.WithLoader(config.NewFileLoader(name, []string{dir}, v, validator.Validate)),
		)
	}

	if err := config.New(cfg, opts...).Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig) (*log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.BadRequest("unknown log level %q", cfg.Level)
	}

	switch cfg.Output {
	case "file":
		return log.NewFile(cfg.File, log.WithLevel(level))
	case "multi":
		return log.NewMulti(cfg.File, log.WithLevel(level))
	default:
		return log.New(log.WithLevel(level)), nil
	}
}

func newStore(ctx context.Context, cfg config.StorageConfig) (session.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		store, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		path := cfg.File.Path
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, errors.Internal("cannot resolve home directory: %v", err)
			}
			path = filepath.Join(home, session.DefaultCredentialsFile)
		}
		store, err := session.NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
