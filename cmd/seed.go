package main

import (
	"fmt"
	"os"

	"github.com/okian/devmatch/internal/adapters/repository"
	"github.com/okian/devmatch/internal/seedgen"
	"github.com/okian/devmatch/pkg/logger"
	"github.com/spf13/cobra"
)

const seedFilePermission = 0o644

func newSeedCmd() *cobra.Command {
	var (
		gen      = seedgen.DefaultConfig()
		out      string
		importDB bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a synthetic fixture of projects and users",
		Long: `Writes a YAML fixture readable by the memory store (seed_file). With
--import the fixture is also upserted into the configured Postgres database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := setup(ctx, os.Stderr)
			if err != nil {
				return err
			}

			g, err := seedgen.New(gen)
			if err != nil {
				return err
			}
			fixture, err := g.Generate(ctx)
			if err != nil {
				return fmt.Errorf("generate fixture: %w", err)
			}

			data, err := fixture.Marshal()
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return fmt.Errorf("write fixture: %w", err)
				}
			} else {
				if err := os.WriteFile(out, data, seedFilePermission); err != nil {
					return fmt.Errorf("write fixture: %w", err)
				}
				log.Info(ctx, "fixture written", logger.String("file", out), logger.Any("seed", g.Seed()))
			}

			if !importDB {
				return nil
			}
			if cfg.DatabaseURL == "" {
				return errNoDatabase
			}
			store, err := repository.OpenPostgres(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if cfg.AutoMigrate {
				if err := repository.Migrate(store.DB()); err != nil {
					return err
				}
			}
			if err := store.Import(ctx, fixture); err != nil {
				return fmt.Errorf("import fixture: %w", err)
			}
			log.Info(ctx, "fixture imported",
				logger.Int("projects", len(fixture.Projects)),
				logger.Int("users", len(fixture.Users)))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	f.IntVar(&gen.Projects, "projects", gen.Projects, "Number of projects")
	f.IntVar(&gen.Developers, "developers", gen.Developers, "Number of developers")
	f.IntVar(&gen.Others, "others", gen.Others, "Number of users with other roles")
	f.IntVar(&gen.MaxSkills, "max-skills", gen.MaxSkills, "Maximum skills per user")
	f.Uint64Var(&gen.Seed, "seed", 0, "Random seed (0 picks one)")
	f.BoolVar(&importDB, "import", false, "Also upsert the fixture into Postgres")
	return cmd
}
