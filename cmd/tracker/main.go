// @title           OsmAnd Trip Tracker API
// @version         1.0
// @description     Ingests OsmAnd online tracking points and serves the active trip of each owner.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/osmand-tracker/tracker/internal/api"
	"github.com/osmand-tracker/tracker/internal/api/middleware"
	"github.com/osmand-tracker/tracker/internal/app"
	"github.com/osmand-tracker/tracker/internal/core/domain"
	"github.com/osmand-tracker/tracker/internal/core/trip"
	"github.com/osmand-tracker/tracker/internal/pkg/config"
	"github.com/osmand-tracker/tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cliApp := &cli.App{
		Name:  "tracker",
		Usage: "OsmAnd trip tracker",
		Commands: []*cli.Command{
			serveCommand(),
			registerCommand(),
			tokenCommand(),
			statsCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "tracker:", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(c.Context)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "tracker",
		Env:     cfg.Env,
	})
	return cfg, log, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server",
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			if err := cfg.RequireJWTSecret(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(context.Background()); err != nil {
					log.Error().Err(err).Msg("close dependencies")
				}
			}()

			e := api.NewRouter(api.Dependencies{
				Identities:         a.Identities,
				Points:             a.Ingest,
				Trips:              a.Trips,
				Checks:             a.Checks(),
				JWTSecret:          cfg.JWTSecret,
				RateLimitPerSecond: cfg.RateLimit.PerSecond,
				RateLimitBurst:     cfg.RateLimit.Burst,
				Logger:             logger.Component("http"),
			})

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("port", cfg.Port).Msg("http server listening")
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
				log.Info().Msg("shutting down")
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "register an owner and print its credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "display name", Required: true},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}

			a, err := app.New(c.Context, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			reg, err := a.Identities.Register(c.Context, c.String("name"))
			if err != nil {
				return err
			}

			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"user_id":    reg.Identity.ID.String(),
				"name":       reg.Identity.Name,
				"secret":     reg.Secret,
				"created_at": reg.Identity.CreatedAt,
			})
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue an operator token for POST /users",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Value: "operator", Usage: "token subject"},
			&cli.StringFlag{Name: "role", Value: middleware.RoleAdmin, Usage: "role claim"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "validity, 0 for no expiry"},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := setup(c)
			if err != nil {
				return err
			}
			if err := cfg.RequireJWTSecret(); err != nil {
				return err
			}

			token, err := middleware.SignToken(cfg.JWTSecret, c.String("subject"), c.String("role"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, token)
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print trip statistics for an owner",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Usage: "owner id", Required: true},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}

			owner, err := domain.ParseOwnerID(c.String("user"))
			if err != nil {
				return err
			}

			a, err := app.New(c.Context, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			history, err := a.Points.ListByOwner(c.Context, owner)
			if err != nil {
				return err
			}
			trip.SortNewestFirst(history)
			active := trip.ActiveTrip(history, time.Time{}, len(history))

			out := map[string]any{
				"user_id":       owner.String(),
				"points":        len(history),
				"trips":         trip.Count(history),
				"active_points": len(active),
			}
			if len(active) > 0 {
				out["active_since"] = active[len(active)-1].DeviceTime
				out["last_seen"] = active[0].DeviceTime
			}
			return json.NewEncoder(os.Stdout).Encode(out)
		},
	}
}
