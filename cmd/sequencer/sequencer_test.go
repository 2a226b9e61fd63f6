package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

const testNarration = "Welcome to this home. The kitchen has granite counters. Schedule a tour today."

// run executes the CLI with fresh flag state
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CATEGORY_TABLE_FILE", "")
	narrationText, narrationFile, tablePath = "", "", ""
	speed, wordsPerMin = 0, 0
	planImages, planListing, planOffline = nil, "", false
	captionsFormat, captionsOut = "json", ""
	for _, c := range rootCmd.Commands() {
		c.Flags().Visit(func(f *pflag.Flag) { f.Changed = false })
	}
	rootCmd.PersistentFlags().Visit(func(f *pflag.Flag) { f.Changed = false })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlanOffline(t *testing.T) {
	out, err := run(t, "", "plan", "--offline", "-n", testNarration, "-i", "a.jpg,b.jpg", "c.jpg")
	if err != nil {
		t.Fatalf("plan error = %v", err)
	}

	var resp model.SequenceResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(resp.Images) != 3 || resp.FallbackCount != 3 {
		t.Errorf("images = %d, fallbacks = %d", len(resp.Images), resp.FallbackCount)
	}
	if resp.Timing.PerImageSeconds != 5 {
		t.Errorf("per image = %v, want 5", resp.Timing.PerImageSeconds)
	}
}

func TestCaptionsFormats(t *testing.T) {
	out, err := run(t, testNarration, "captions", "--file", "-", "--format", "srt")
	if err != nil {
		t.Fatalf("captions error = %v", err)
	}
	if !strings.HasPrefix(out, "1\n00:00:00,500 --> ") || !strings.Contains(out, "\n3\n") {
		t.Errorf("srt output:\n%s", out)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "captions.vtt")
	if _, err := run(t, "", "captions", "-n", testNarration, "--format", "vtt", "-o", path); err != nil {
		t.Fatalf("captions error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT\n\n") {
		t.Errorf("vtt file:\n%s", data)
	}

	if _, err := run(t, "", "captions", "-n", testNarration, "--format", "ass"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestScoreWithTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.toml")
	table := "order = [\"exterior_front\", \"kitchen\", \"other\"]\n\n[keywords]\nkitchen = [\"galley\"]\n"
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "score", "--table", path, "-n", "A bright galley with a second galley pantry.")
	if err != nil {
		t.Fatalf("score error = %v", err)
	}
	if !strings.Contains(out, "kitchen") || !strings.Contains(out, "hits:   2") {
		t.Errorf("score output:\n%s", out)
	}
}

func TestMissingNarration(t *testing.T) {
	if _, err := run(t, "", "score"); err == nil {
		t.Error("score without narration succeeded")
	}
}
