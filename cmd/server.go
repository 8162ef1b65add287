package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/gatherd/internal/catalog"
	"github.com/example/gatherd/internal/config"
	"github.com/example/gatherd/internal/db"
	"github.com/example/gatherd/internal/migrate"
	"github.com/example/gatherd/internal/scheduler"
	"github.com/example/gatherd/internal/selection"
	"github.com/example/gatherd/internal/web"
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the choices API + selection scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			catalogRepo := catalog.NewRepo(d)
			selectionRepo := selection.NewRepo(d)
			engine := selection.New(selectionRepo, catalogRepo)

			// scheduler
			driver := &scheduler.Driver{
				Engine:           engine,
				FinalizeInterval: cfg.FinalizeInterval,
			}
			go func() { _ = driver.Run(ctx) }()

			// web
			ws := &web.Server{Engine: engine, AllowedOrigins: cfg.CORSAllowedOrigins}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")

	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
