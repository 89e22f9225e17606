package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tiger-clip/internal/fetcher"
	"github.com/sells-group/tiger-clip/internal/model"
	"github.com/sells-group/tiger-clip/internal/pipeline"
	"github.com/sells-group/tiger-clip/internal/report"
)

var clipCmd = &cobra.Command{
	Use:   "clip",
	Short: "Clip TIGER layers to a boundary",
	Long:  "Resolves the selector, dissolves its boundary, and clips each requested layer to it, writing shapefile artifacts to the output directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req, err := selectorRequest(cmd)
		if err != nil {
			return err
		}
		req.Year, _ = cmd.Flags().GetInt("year")
		layers, _ := cmd.Flags().GetString("layers")
		req.Layers = splitAndTrim(strings.ToUpper(layers))

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.Output.Dir = out
		}
		if concurrency, _ := cmd.Flags().GetInt("concurrency"); concurrency > 0 {
			cfg.Clip.Concurrency = concurrency
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
		res, runErr := p.Run(ctx, req)

		if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" && res != nil {
			if err := writeRunReport(reportPath, res, runErr); err != nil {
				return err
			}
			fmt.Printf("Report: %s\n", reportPath)
		}
		if runErr != nil {
			return eris.Wrap(runErr, "clip")
		}

		for _, lr := range res.Layers {
			if lr.Err != nil {
				fmt.Printf("%s: FAILED: %v\n", lr.Layer, lr.Err)
				continue
			}
			fmt.Printf("%s: %d of %d features -> %s\n", lr.Layer, lr.FeaturesOut, lr.FeaturesIn, lr.ArtifactPath)
		}
		fmt.Printf("Boundary: %s\n", res.BoundaryPath)
		return nil
	},
}

func init() {
	addSelectorFlags(clipCmd)
	clipCmd.Flags().Int("year", 0, "TIGER/Line vintage year (defaults to config)")
	clipCmd.Flags().String("layers", "PRISECROADS,COUNTY", "comma-separated layers to clip")
	clipCmd.Flags().String("out", "", "output directory for artifacts (defaults to config)")
	clipCmd.Flags().String("report", "", "write an XLSX run report to this path")
	clipCmd.Flags().Int("concurrency", 0, "max layers clipped in parallel (defaults to config)")
	rootCmd.AddCommand(clipCmd)
}

// writeRunReport renders one run's outcome into an XLSX workbook.
func writeRunReport(path string, res *pipeline.Result, runErr error) error {
	s := report.Summary{
		RunID:         res.RunID,
		Kind:          string(res.Request.Kind),
		Target:        res.Request.Target(),
		Year:          res.Request.Year,
		Status:        string(model.RunStatusComplete),
		BoundaryPath:  res.BoundaryPath,
		BoundarySRID:  res.BoundarySRID(),
		BoundaryParts: res.BoundaryParts(),
		StartedAt:     res.StartedAt,
		FinishedAt:    res.FinishedAt,
	}
	if runErr != nil {
		s.Status = string(model.RunStatusFailed)
		s.Error = runErr.Error()
	}

	layers := make([]report.LayerResult, 0, len(res.Layers))
	for _, lr := range res.Layers {
		rl := report.LayerResult{
			Layer:        lr.Layer,
			Status:       string(lr.Status),
			Family:       lr.Family,
			SRID:         lr.SRID,
			FeaturesIn:   lr.FeaturesIn,
			FeaturesOut:  lr.FeaturesOut,
			ArtifactPath: lr.ArtifactPath,
			DurationMs:   lr.DurationMs,
		}
		if lr.Err != nil {
			rl.Error = lr.Err.Error()
		}
		layers = append(layers, rl)
	}

	return report.Write(path, s, layers)
}
