package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tiger-clip/internal/model"
	"github.com/sells-group/tiger-clip/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent runs and cached datasets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		statusFilter, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{Status: model.RunStatus(statusFilter), Limit: limit})
		if err != nil {
			return eris.Wrap(err, "status: list runs")
		}
		datasets, err := st.ListDatasets(ctx)
		if err != nil {
			return eris.Wrap(err, "status: list datasets")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs recorded.")
		} else {
			formatRuns(os.Stdout, runs)
		}

		fmt.Println()
		if len(datasets) == 0 {
			fmt.Fprintln(os.Stderr, "No cached datasets.")
			return nil
		}
		formatDatasets(os.Stdout, datasets)
		return nil
	},
}

func init() {
	statusCmd.Flags().String("status", "", "filter runs by status (queued, running, complete, failed)")
	statusCmd.Flags().Int("limit", 20, "max number of runs to display")
	rootCmd.AddCommand(statusCmd)
}

// formatRuns writes a tabular list of runs to w.
func formatRuns(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tTARGET\tYEAR\tSTATUS\tCREATED\tDURATION")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t----\t------\t-------\t--------")

	for _, r := range runs {
		dur := r.UpdatedAt.Sub(r.CreatedAt).Round(time.Second).String()

		target := r.Request.Target()
		if len(target) > 30 {
			target = target[:27] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			truncateID(r.ID),
			r.Request.Kind,
			target,
			r.Request.Year,
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04"),
			dur,
		)
	}
	_ = w.Flush()
}

// formatDatasets writes a tabular list of cached archives to w.
func formatDatasets(out io.Writer, datasets []model.Dataset) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "URL\tSIZE\tFETCHED")
	_, _ = fmt.Fprintln(w, "---\t----\t-------")

	for _, d := range datasets {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			d.URL,
			formatBytes(d.SizeBytes),
			d.FetchedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// formatBytes renders a byte count in binary units for compact display.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for u := n / unit; u >= unit; u /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
