package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strauser85/snap-sold-sub001/internal/service"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show which rooms a narration covers and the walkthrough order it implies",
	RunE: func(cmd *cobra.Command, args []string) error {
		narration, err := readNarration(cmd.InOrStdin())
		if err != nil {
			return err
		}

		order := service.NewScriptScorer(table).Analyze(narration)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Walkthrough Order\n")
		fmt.Fprintf(out, "=================\n")
		for i, category := range order.Categories {
			fmt.Fprintf(out, "  %2d. %-16s hits: %3d\n", i+1, category, order.Scores[category])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
