package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/strauser85/snap-sold-sub001/internal/model"
	"github.com/strauser85/snap-sold-sub001/internal/service"
)

var (
	planImages  []string
	planListing string
	planOffline bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Classify photos, order them against the narration and time captions and slides",
	RunE: func(cmd *cobra.Command, args []string) error {
		narration, err := readNarration(cmd.InOrStdin())
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		svc := service.BuildSequenceService(cfg, table, nil, planOffline)

		wpm, speedMultiplier := rateOverrides()
		resp, err := svc.Sequence(ctx, &model.SequenceRequest{
			Narration:       narration,
			ImageURLs:       append(planImages, args...),
			ListingURL:      planListing,
			SpeedMultiplier: speedMultiplier,
			WordsPerMinute:  wpm,
		})
		if err != nil {
			return err
		}

		if resp.FallbackCount > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d photos could not be classified and were placed last\n",
				resp.FallbackCount, len(resp.Images))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	planCmd.Flags().StringSliceVarP(&planImages, "images", "i", nil, "Photo URLs (repeatable or comma separated); extra arguments are photos too")
	planCmd.Flags().StringVar(&planListing, "listing", "", "Listing page to discover photos on when no images are given")
	planCmd.Flags().BoolVar(&planOffline, "offline", false, "Skip the vision service and listing fetches; every photo takes the fallback category")
	rootCmd.AddCommand(planCmd)
}
