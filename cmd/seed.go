package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/example/gatherd/internal/catalog"
	"github.com/example/gatherd/internal/config"
	"github.com/example/gatherd/internal/db"
	"github.com/example/gatherd/internal/migrate"
	"github.com/example/gatherd/internal/seed"
	"github.com/example/gatherd/internal/selection"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var withToday bool

	c := &cobra.Command{
		Use:   "seed",
		Short: "Seed the place and hour catalogs (no-op when already populated)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx := context.Background()
			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := migrate.Up(ctx, d); err != nil {
				return err
			}

			catalogRepo := catalog.NewRepo(d)
			engine := selection.New(selection.NewRepo(d), catalogRepo)
			if err := seed.Run(ctx, catalogRepo, engine, withToday); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "seeded catalogs")
			return nil
		},
	}

	c.Flags().BoolVar(&withToday, "with-today", false, "also create today's selection if missing")
	return c
}
