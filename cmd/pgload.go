package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tiger-clip/internal/db"
	"github.com/sells-group/tiger-clip/internal/pgload"
	"github.com/sells-group/tiger-clip/internal/shapefile"
)

var pgloadDir string

var pgloadCmd = &cobra.Command{
	Use:   "pgload",
	Short: "Load clipped artifacts into PostGIS",
	Long:  "Reads every shapefile in an artifact directory and bulk-copies it into the configured PostGIS schema, one table per artifact.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if schema, _ := cmd.Flags().GetString("schema"); schema != "" {
			cfg.Postgres.Schema = schema
		}
		if err := cfg.Validate("pgload"); err != nil {
			return err
		}

		entries, err := os.ReadDir(pgloadDir)
		if err != nil {
			return eris.Wrapf(err, "pgload: read %s", pgloadDir)
		}
		var shpFiles []string
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".shp") {
				shpFiles = append(shpFiles, filepath.Join(pgloadDir, e.Name()))
			}
		}
		if len(shpFiles) == 0 {
			return eris.Errorf("pgload: no shapefiles in %s", pgloadDir)
		}

		pool, err := db.NewPool(ctx, cfg.Postgres.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pgload.EnsureSchema(ctx, pool, cfg.Postgres.Schema); err != nil {
			return err
		}

		var total int64
		for _, path := range shpFiles {
			col, err := shapefile.Read(path)
			if err != nil {
				return eris.Wrapf(err, "pgload: read %s", path)
			}

			table := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if err := pgload.EnsureLayerTable(ctx, pool, cfg.Postgres.Schema, table, col); err != nil {
				return err
			}
			n, err := pgload.LoadCollection(ctx, pool, cfg.Postgres.Schema, table, col, cfg.Postgres.BatchSize)
			if err != nil {
				return err
			}
			total += n
			fmt.Printf("%s: %d features -> %s.%s\n", filepath.Base(path), n, cfg.Postgres.Schema, table)
		}

		zap.L().Info("pgload complete", zap.Int("files", len(shpFiles)), zap.Int64("features", total))
		fmt.Printf("Loaded %d features from %d artifacts.\n", total, len(shpFiles))
		return nil
	},
}

func init() {
	pgloadCmd.Flags().StringVar(&pgloadDir, "run", "", "artifact directory to load (required)")
	_ = pgloadCmd.MarkFlagRequired("run")
	pgloadCmd.Flags().String("schema", "", "target schema (defaults to config)")
	rootCmd.AddCommand(pgloadCmd)
}
