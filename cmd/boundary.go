package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tiger-clip/internal/fetcher"
	"github.com/sells-group/tiger-clip/internal/pipeline"
)

var boundaryCmd = &cobra.Command{
	Use:   "boundary",
	Short: "Resolve and persist a boundary without clipping",
	Long:  "Resolves the selector, dissolves the boundary geometry, and writes it as a shapefile to the output directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req, err := selectorRequest(cmd)
		if err != nil {
			return err
		}
		req.Year, _ = cmd.Flags().GetInt("year")

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.Output.Dir = out
		}
		if err := cfg.Validate("clip"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p := pipeline.New(cfg, st, fetcher.NewDispatcher())
		res, err := p.Boundary(ctx, req)
		if err != nil {
			return eris.Wrap(err, "boundary")
		}

		fmt.Printf("Boundary: %s (EPSG:%d, %d part(s))\n", res.BoundaryPath, res.BoundarySRID(), res.BoundaryParts())
		return nil
	},
}

func init() {
	addSelectorFlags(boundaryCmd)
	boundaryCmd.Flags().Int("year", 0, "TIGER/Line vintage year (defaults to config)")
	boundaryCmd.Flags().String("out", "", "output directory (defaults to config)")
	rootCmd.AddCommand(boundaryCmd)
}
