package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strauser85/snap-sold-sub001/internal/config"
	"github.com/strauser85/snap-sold-sub001/internal/model"
)

var (
	tablePath     string
	narrationText string
	narrationFile string
	speed         float64
	wordsPerMin   float64
	cfg           *config.Config
	table         model.CategoryTable
)

var rootCmd = &cobra.Command{
	Use:          "sequencer",
	Short:        "Plan listing videos: photo order, captions and slide timing",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if !cmd.Flags().Changed("table") {
			tablePath = cfg.CategoryTableFile
		}
		table, err = config.LoadCategoryTable(tablePath)
		if err != nil {
			return err
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tablePath, "table", "", "Category table TOML file (defaults to CATEGORY_TABLE_FILE)")
	rootCmd.PersistentFlags().StringVarP(&narrationText, "narration", "n", "", "Narration text")
	rootCmd.PersistentFlags().StringVarP(&narrationFile, "file", "f", "", "Read narration from a file, - for stdin")
	rootCmd.PersistentFlags().Float64Var(&speed, "speed", 0, "Narration speed multiplier (default from NARRATION_SPEED)")
	rootCmd.PersistentFlags().Float64Var(&wordsPerMin, "wpm", 0, "Speaking rate in words per minute (default from NARRATION_WPM)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// readNarration returns the narration from --narration or --file
func readNarration(stdin io.Reader) (string, error) {
	if narrationText != "" {
		return narrationText, nil
	}

	var (
		data []byte
		err  error
	)
	switch narrationFile {
	case "":
		return "", fmt.Errorf("provide the narration with --narration or --file")
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(narrationFile)
	}
	if err != nil {
		return "", fmt.Errorf("reading narration: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// rateOverrides turns unset flags into nil overrides
func rateOverrides() (wpm, speedMultiplier *float64) {
	if wordsPerMin != 0 {
		wpm = &wordsPerMin
	}
	if speed != 0 {
		speedMultiplier = &speed
	}
	return wpm, speedMultiplier
}
