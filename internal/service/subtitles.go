package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// FormatSRT renders caption segments as a SubRip document
func FormatSRT(segments []model.CaptionSegment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, formatTimestamp(seg.StartTime, ","), formatTimestamp(seg.EndTime, ","), seg.Text)
	}
	return b.String()
}

// FormatWebVTT renders caption segments as a WebVTT document
func FormatWebVTT(segments []model.CaptionSegment) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, seg := range segments {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n",
			formatTimestamp(seg.StartTime, "."), formatTimestamp(seg.EndTime, "."), seg.Text)
	}
	return b.String()
}

// formatTimestamp renders seconds as HH:MM:SS<sep>mmm
func formatTimestamp(seconds float64, sep string) string {
	ms := int64(math.Round(seconds * 1000))
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	m := (ms / 60_000) % 60
	s := (ms / 1000) % 60
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", h, m, s, sep, ms%1000)
}
