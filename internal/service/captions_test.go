package service

import (
	"reflect"
	"strings"
	"testing"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

func captionTexts(segments []model.CaptionSegment) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = s.Text
	}
	return out
}

// normalizedWords lowercases words and strips surrounding punctuation
func normalizedWords(text string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if w = strings.Trim(w, ".!?,;:\"'"); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func assertCaptionInvariants(t *testing.T, text string, segments []model.CaptionSegment) {
	t.Helper()
	for i, seg := range segments {
		if seg.Text == "" {
			t.Errorf("segment %d has empty text", i)
		}
		if seg.StartTime >= seg.EndTime {
			t.Errorf("segment %d: start %v >= end %v", i, seg.StartTime, seg.EndTime)
		}
		if i > 0 && seg.StartTime < segments[i-1].StartTime {
			t.Errorf("segment %d starts before segment %d", i, i-1)
		}
	}

	joined := strings.Join(captionTexts(segments), " ")
	if got, want := normalizedWords(joined), normalizedWords(text); !reflect.DeepEqual(got, want) {
		t.Errorf("captions cover %v, want %v", got, want)
	}
}

func TestCaptionSegmenter_ListingNarration(t *testing.T) {
	text := "Welcome to this home. The kitchen has granite counters. Schedule a tour today."
	segments := NewCaptionSegmenter().Segment(text, 15)

	wantTexts := []string{
		"WELCOME TO THIS HOME",
		"THE KITCHEN HAS GRANITE COUNTERS",
		"SCHEDULE A TOUR TODAY",
	}
	if got := captionTexts(segments); !reflect.DeepEqual(got, wantTexts) {
		t.Fatalf("Segment() texts = %v, want %v", got, wantTexts)
	}

	assertCaptionInvariants(t, text, segments)

	if !approxEqual(segments[0].StartTime, 0.5) {
		t.Errorf("first start = %v, want 0.5", segments[0].StartTime)
	}
	if last := segments[len(segments)-1]; !approxEqual(last.EndTime, 14.9) {
		t.Errorf("last end = %v, want 14.9", last.EndTime)
	}
	// the cursor advances by the untrimmed duration
	if gap := segments[1].StartTime - segments[0].EndTime; !approxEqual(gap, DefaultCaptionGap) {
		t.Errorf("gap between segments = %v, want %v", gap, DefaultCaptionGap)
	}
}

func TestCaptionSegmenter_Chunking(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single word sentence",
			text: "Welcome!",
			want: []string{"WELCOME"},
		},
		{
			name: "chunks never cross sentences",
			text: "Three bed two bath. Big yard.",
			want: []string{"THREE BED TWO BATH", "BIG YARD"},
		},
		{
			name: "short tail folds into previous chunk",
			text: "One two three four five",
			want: []string{"ONE TWO THREE FOUR FIVE"},
		},
		{
			name: "tail long enough stays separate",
			text: "One two three four five six",
			want: []string{"ONE TWO THREE FOUR", "FIVE SIX"},
		},
		{
			name: "decimals and in-sentence punctuation kept",
			text: "It has 3.5 baths, a den, and more!",
			want: []string{"IT HAS 3.5 BATHS,", "A DEN, AND MORE"},
		},
		{
			name: "no terminal punctuation",
			text: "just listed",
			want: []string{"JUST LISTED"},
		},
		{
			name: "repeated punctuation and quotes",
			text: `Wow!!! "Stunning." Done?`,
			want: []string{"WOW", "STUNNING", "DONE"},
		},
		{
			name: "quote opened mid sentence",
			text: `He called it "a gem." Call today.`,
			want: []string{"HE CALLED IT A GEM", "CALL TODAY"},
		},
		{
			name: "brackets and single quotes",
			text: `(Seller motivated.) 'Owner's dream.'`,
			want: []string{"SELLER MOTIVATED", "OWNER'S DREAM"},
		},
		{
			name: "balanced quotes kept",
			text: `The "chef's" kitchen shines.`,
			want: []string{`THE "CHEF'S" KITCHEN SHINES`},
		},
	}

	seg := NewCaptionSegmenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := seg.Segment(tt.text, 30)
			if got := captionTexts(segments); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCaptionSegmenter_MinimumChunkDuration(t *testing.T) {
	seg := NewCaptionSegmenter()
	// 40 words over 10 seconds would give each 4-word chunk under a second
	text := strings.TrimSpace(strings.Repeat("great house in town. ", 10))
	segments := seg.Segment(text, 10)

	assertCaptionInvariants(t, text, segments)
	for i, s := range segments {
		if d := s.EndTime - s.StartTime + seg.Gap; d < seg.MinChunkSeconds-1e-9 {
			t.Errorf("segment %d lasts %v, want at least %v", i, d, seg.MinChunkSeconds)
		}
	}
	// the floor pushes the end past the nominal duration, which is accepted
	if last := segments[len(segments)-1]; last.EndTime <= 10 {
		t.Errorf("last end = %v, want beyond 10 when floored", last.EndTime)
	}
}

func TestCaptionSegmenter_Clamp(t *testing.T) {
	seg := NewCaptionSegmenter()
	seg.ClampToDuration = true

	text := strings.TrimSpace(strings.Repeat("great house in town. ", 10))
	segments := seg.Segment(text, 10)

	assertCaptionInvariants(t, text, segments)
	for i, s := range segments {
		if s.EndTime > 10 {
			t.Errorf("segment %d ends at %v, want at most 10", i, s.EndTime)
		}
		if s.StartTime >= 10 {
			t.Errorf("segment %d starts at %v, want before 10", i, s.StartTime)
		}
	}
	// 2s floors from 0.5 leave room for five captions; the rest fold into the last
	if len(segments) != 5 {
		t.Fatalf("got %d segments, want 5", len(segments))
	}
	last := segments[len(segments)-1]
	if last.StartTime != 8.5 || last.EndTime != 10 {
		t.Errorf("last segment = [%v, %v], want [8.5, 10]", last.StartTime, last.EndTime)
	}
	if want := strings.TrimSpace(strings.Repeat("GREAT HOUSE IN TOWN ", 6)); last.Text != want {
		t.Errorf("last text = %q, want %q", last.Text, want)
	}
}

func TestCaptionSegmenter_ClampNeedsRoomAfterOffset(t *testing.T) {
	seg := NewCaptionSegmenter()
	seg.ClampToDuration = true
	seg.FallbackWordsPerSecond = 2.5

	segments := seg.Segment("One two three four five six seven eight", 0.2)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	for i, s := range segments {
		if s.StartTime >= s.EndTime {
			t.Errorf("segment %d: start %v >= end %v", i, s.StartTime, s.EndTime)
		}
	}
}

func TestCaptionSegmenter_FloorDrift(t *testing.T) {
	seg := NewCaptionSegmenter()
	// 70 words estimated at 28s: every chunk is shorter than the 2s floor
	text := strings.TrimSpace(strings.Repeat("Bright open plan living with ocean views. ", 10))
	segments := seg.Segment(text, 28)

	assertCaptionInvariants(t, text, segments)
	if len(segments) != 20 {
		t.Fatalf("got %d segments, want 20", len(segments))
	}
	if last := segments[len(segments)-1]; !approxEqual(last.EndTime, 40.4) {
		t.Errorf("last end = %v, want 40.4 (20 floored chunks from 0.5)", last.EndTime)
	}
}

func TestCaptionSegmenter_DurationShorterThanOffset(t *testing.T) {
	seg := NewCaptionSegmenter()
	seg.FallbackWordsPerSecond = 2.5
	seg.MinChunkSeconds = 1.0

	segments := seg.Segment("One two three four five six seven eight", 0.2)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	// 4 words at 2.5 words/second
	if d := segments[1].StartTime - segments[0].StartTime; !approxEqual(d, 1.6) {
		t.Errorf("first chunk duration = %v, want 1.6", d)
	}
}

func TestCaptionSegmenter_Degenerate(t *testing.T) {
	seg := NewCaptionSegmenter()

	if got := seg.Segment("   \n\t ", 15); len(got) != 0 {
		t.Errorf("Segment(blank) = %v, want empty", got)
	}

	got := seg.Segment(" ... ", 15)
	if len(got) != 1 {
		t.Fatalf("Segment(punctuation) = %v, want one segment", got)
	}
	if got[0].Text != "..." || !approxEqual(got[0].StartTime, 0.5) || !approxEqual(got[0].EndTime, 2.4) {
		t.Errorf("Segment(punctuation) = %+v", got[0])
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"One. Two! Three?", []string{"One", "Two", "Three"}},
		{"Priced at $1.2M. Call now", []string{"Priced at $1.2M", "Call now"}},
		{"...", nil},
		{"No punctuation", []string{"No punctuation"}},
	}
	for _, tt := range tests {
		if got := SplitSentences(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitSentences(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
