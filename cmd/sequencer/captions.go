package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/strauser85/snap-sold-sub001/internal/model"
	"github.com/strauser85/snap-sold-sub001/internal/service"
)

var (
	captionsFormat string
	captionsOut    string
)

var captionsCmd = &cobra.Command{
	Use:   "captions",
	Short: "Estimate narration length and export timed captions (json, srt or vtt)",
	RunE: func(cmd *cobra.Command, args []string) error {
		narration, err := readNarration(cmd.InOrStdin())
		if err != nil {
			return err
		}

		svc := service.BuildSequenceService(cfg, table, nil, true)

		wpm, speedMultiplier := rateOverrides()
		resp, err := svc.Captions(&model.CaptionsRequest{
			Narration:       narration,
			SpeedMultiplier: speedMultiplier,
			WordsPerMinute:  wpm,
		})
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if captionsOut != "" {
			f, err := os.Create(captionsOut)
			if err != nil {
				return fmt.Errorf("creating %s: %w", captionsOut, err)
			}
			defer f.Close()
			out = f
		}

		switch captionsFormat {
		case "srt":
			_, err = io.WriteString(out, service.FormatSRT(resp.Captions))
		case "vtt":
			_, err = io.WriteString(out, service.FormatWebVTT(resp.Captions))
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			err = enc.Encode(resp)
		default:
			return fmt.Errorf("unknown format %q (want json, srt or vtt)", captionsFormat)
		}
		if err != nil {
			return err
		}

		if captionsOut != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d captions (%.1fs) to %s\n", len(resp.Captions), resp.DurationSeconds, captionsOut)
		}
		return nil
	},
}

func init() {
	captionsCmd.Flags().StringVar(&captionsFormat, "format", "json", "Output format: json, srt or vtt")
	captionsCmd.Flags().StringVarP(&captionsOut, "out", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(captionsCmd)
}
