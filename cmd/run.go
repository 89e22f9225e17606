package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tiger-clip/internal/fetcher"
	"github.com/sells-group/tiger-clip/internal/job"
	"github.com/sells-group/tiger-clip/internal/pipeline"
)

var runJobFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch of clips from a YAML job file",
	Long:  "Loads a job file, then runs each clip in order. A failed job does not stop the batch; the command exits non-zero if any job failed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := job.Load(runJobFile)
		if err != nil {
			return err
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

		outDir := cfg.Output.Dir
		var failed []string
		for i := range f.Jobs {
			j := &f.Jobs[i]
			label := j.Label(i)

			req, err := j.Request()
			if err != nil {
				return eris.Wrapf(err, "job %s", label)
			}

			cfg.Output.Dir = outDir
			if j.Out != "" {
				cfg.Output.Dir = j.Out
			}

			res, runErr := p.Run(ctx, req)

			if j.Report != "" && res != nil {
				if err := writeRunReport(j.Report, res, runErr); err != nil {
					zap.L().Warn("job report write failed", zap.String("job", label), zap.Error(err))
				}
			}

			if runErr != nil {
				failed = append(failed, label)
				zap.L().Error("job failed", zap.String("job", label), zap.Error(runErr))
				if ctx.Err() != nil {
					break
				}
				continue
			}
			fmt.Printf("%s: %s\n", label, res.BoundaryPath)
		}

		if len(failed) > 0 {
			return eris.Errorf("run: %d of %d jobs failed: %s", len(failed), len(f.Jobs), strings.Join(failed, ", "))
		}
		fmt.Printf("All %d jobs complete.\n", len(f.Jobs))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runJobFile, "job", "", "YAML job file (required)")
	_ = runCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(runCmd)
}
