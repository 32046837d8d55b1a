package main

import (
	"fmt"

	"github.com/wgdzlh/builtup/scene"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Pick the best product per tile and period from the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := scene.LoadManifest(cfg.Scene.Manifest)
		if err != nil {
			return err
		}
		s, err := scene.NewSelector(cat, cfg.Scene)
		if err != nil {
			return err
		}
		defer s.Close()

		plan := s.Plan(cmd.Context())
		failed := 0
		out := cmd.OutOrStdout()
		for _, sel := range plan {
			recorder.ObserveSelection(sel.Period, sel.Err)
			if sel.Err != nil {
				failed++
				fmt.Fprintf(out, "%s\t%s\t-\t%v\n", sel.Period, sel.Tile, sel.Err)
				continue
			}
			p := sel.Product
			fmt.Fprintf(out, "%s\t%s\t%s\tcloud=%.2f\tingested=%s\t%s\n",
				sel.Period, sel.Tile, p.Title, p.CloudCover, p.IngestionDate.Format("2006-01-02T15:04:05Z07:00"), p.Path)
		}
		if failed == len(plan) {
			return eris.New("no product selected")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
}
