package cli

import (
	"context"

	"github.com/saulfrancisco-ruizacevedo/go-peraturan"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/render"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var (
		criteria  peraturan.Criteria
		expand    []string
		stabilize bool
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the graph and print the result",
		Example: `  peraturan search --nomor "UU No. 8 Tahun 1999"
  peraturan search --topik Pajak --tahun 2020 --status Berlaku
  peraturan search --cypher "MATCH (t:Tahun) RETURN t" --expand 4:abc:12`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, closeRunner := openRunner(ctx, cfg, logger)
			defer closeRunner()
			gm := newManager(runner, cfg)

			statement, err := gm.Builder().Build(criteria)
			if err != nil {
				return err
			}

			canvas := NewTerminalCanvas(cmd.OutOrStdout())
			r := render.NewRenderer(canvas, render.Options{DefaultStatement: statement, Logger: logger})
			_, err = r.Init(ctx, func(context.Context) (render.Source, error) {
				if u, ok := runner.(peraturan.UnavailableRunner); ok {
					return nil, u.Err
				}
				return gm, nil
			})
			if err != nil {
				return err
			}

			for _, id := range expand {
				restored, err := r.ClickNode(id)
				if err != nil {
					return err
				}
				if !restored {
					canvas.Notef("%s has no truncated label", id)
				}
			}
			if stabilize {
				return r.Stabilize()
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&criteria.RegulationNumber, "nomor", "", "regulation number")
	f.StringVar(&criteria.Topic, "topik", "", "topic name")
	f.StringVar(&criteria.Year, "tahun", "", "year of publication")
	f.StringVar(&criteria.Form, "bentuk", "", "form of regulation")
	f.StringVar(&criteria.Status, "status", "", "status (Berlaku, Tidak Berlaku)")
	f.StringVar(&criteria.RawQuery, "cypher", "", "run this Cypher query verbatim")
	f.StringSliceVar(&expand, "expand", nil, "node IDs whose full label is restored after rendering")
	f.BoolVar(&stabilize, "stabilize", false, "print the graph as a sorted adjacency list")
	return cmd
}
