package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tiger-clip/internal/fetcher"
	"github.com/sells-group/tiger-clip/internal/pipeline"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a selector to its canonical identifier",
	Long:  "Prints the two-digit state FIPS code for --state, or validates a county GEOID for --county, without clipping anything.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req, err := selectorRequest(cmd)
		if err != nil {
			return err
		}
		req.Year, _ = cmd.Flags().GetInt("year")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p := pipeline.New(cfg, st, fetcher.NewDispatcher())
		id, err := p.Resolve(ctx, req)
		if err != nil {
			return eris.Wrap(err, "resolve")
		}

		fmt.Println(id)
		return nil
	},
}

func init() {
	addSelectorFlags(resolveCmd)
	resolveCmd.Flags().Int("year", 0, "TIGER/Line vintage year (defaults to config)")
	rootCmd.AddCommand(resolveCmd)
}
