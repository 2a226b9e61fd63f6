package service

import (
	"regexp"
	"strings"

	"github.com/strauser85/snap-sold-sub001/internal/model"
)

// Caption layout defaults
const (
	DefaultChunkWords      = 4
	DefaultMinChunkWords   = 2
	DefaultMinChunkSeconds = 2.0
	DefaultStartOffset     = 0.5
	DefaultCaptionGap      = 0.1
)

// sentenceEnd matches terminal punctuation followed by whitespace or the end
// of the text, so decimals like "3.5 baths" stay inside one sentence
var sentenceEnd = regexp.MustCompile(`[.!?]+["'”’)\]]*(?:\s+|$)`)

// CaptionSegmenter splits narration into short on-screen chunks and times
// them against the estimated narration length
type CaptionSegmenter struct {
	ChunkWords      int
	MinChunkWords   int     // a shorter trailing chunk folds into the previous one
	MinChunkSeconds float64 // readability floor per chunk
	StartOffset     float64
	Gap             float64 // trimmed from each chunk's end for visual separation
	ClampToDuration bool

	// FallbackWordsPerSecond paces chunks when the duration leaves no room
	// after the start offset
	FallbackWordsPerSecond float64
}

// NewCaptionSegmenter returns a segmenter with the default layout
func NewCaptionSegmenter() CaptionSegmenter {
	return CaptionSegmenter{
		ChunkWords:             DefaultChunkWords,
		MinChunkWords:          DefaultMinChunkWords,
		MinChunkSeconds:        DefaultMinChunkSeconds,
		StartOffset:            DefaultStartOffset,
		Gap:                    DefaultCaptionGap,
		FallbackWordsPerSecond: DefaultWordsPerMinute * DefaultSpeedMultiplier / 60,
	}
}

// Segment returns caption chunks in narration order. Start times are
// non-decreasing and every segment has start < end. The last segment may end
// after totalDuration unless ClampToDuration is set.
func (s CaptionSegmenter) Segment(text string, totalDuration float64) []model.CaptionSegment {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []model.CaptionSegment{}
	}

	var chunks [][]string
	totalWords := 0
	for _, sentence := range SplitSentences(trimmed) {
		for _, chunk := range s.chunkSentence(sentence) {
			chunks = append(chunks, chunk)
			totalWords += len(chunk)
		}
	}

	if len(chunks) == 0 {
		// Punctuation only; show it once so the caller still gets a caption
		end := s.StartOffset + s.MinChunkSeconds - s.Gap
		if end <= s.StartOffset {
			end = s.StartOffset + s.MinChunkSeconds
		}
		return []model.CaptionSegment{{
			Text:      strings.ToUpper(trimmed),
			StartTime: s.StartOffset,
			EndTime:   end,
		}}
	}

	pace := s.pace(totalWords, totalDuration)

	// Clamping needs room for at least one caption after the start offset
	clamp := s.ClampToDuration && totalDuration > s.StartOffset

	segments := make([]model.CaptionSegment, 0, len(chunks))
	cursor := s.StartOffset
	for _, chunk := range chunks {
		duration := float64(len(chunk)) / pace
		if duration < s.MinChunkSeconds {
			duration = s.MinChunkSeconds
		}

		start := cursor
		text := strings.ToUpper(strings.Join(chunk, " "))

		// Past the end of the narration the words join the last caption
		if clamp && start >= totalDuration && len(segments) > 0 {
			last := &segments[len(segments)-1]
			last.Text += " " + text
			last.EndTime = totalDuration
			continue
		}

		end := start + duration - s.Gap
		if end <= start {
			end = start + duration
		}
		if clamp && end > totalDuration {
			end = totalDuration
		}

		segments = append(segments, model.CaptionSegment{
			Text:      text,
			StartTime: start,
			EndTime:   end,
		})
		cursor += duration
	}

	return segments
}

// pace returns words per second so that the chunks fill the time between
// the start offset and the end of the narration
func (s CaptionSegmenter) pace(totalWords int, totalDuration float64) float64 {
	available := totalDuration - s.StartOffset
	if available > 0 && totalWords > 0 {
		return float64(totalWords) / available
	}
	if s.FallbackWordsPerSecond > 0 {
		return s.FallbackWordsPerSecond
	}
	return DefaultWordsPerMinute / 60
}

// chunkSentence splits a sentence into ChunkWords-sized word groups
func (s CaptionSegmenter) chunkSentence(sentence string) [][]string {
	words := strings.Fields(sentence)
	if len(words) == 0 {
		return nil
	}

	size := s.ChunkWords
	if size < 1 {
		size = DefaultChunkWords
	}

	var chunks [][]string
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, words[i:end])
	}

	if n := len(chunks); n > 1 && len(chunks[n-1]) < s.MinChunkWords {
		merged := make([]string, 0, len(chunks[n-2])+len(chunks[n-1]))
		merged = append(merged, chunks[n-2]...)
		merged = append(merged, chunks[n-1]...)
		chunks = append(chunks[:n-2], merged)
	}

	return chunks
}

// closingPairs maps closing quotes and brackets to their openers
var closingPairs = map[rune]rune{
	'"': '"',
	'\'': '\'',
	'”': '“',
	'’': '‘',
	')': '(',
	']': '[',
}

// SplitSentences splits text at terminal punctuation, dropping the
// punctuation and any blank sentences. A closing quote or bracket dropped
// with the punctuation takes its unmatched opener with it.
func SplitSentences(text string) []string {
	var sentences []string
	prev := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		sentence := text[prev:loc[0]]
		for _, r := range text[loc[0]:loc[1]] {
			if opener, ok := closingPairs[r]; ok {
				sentence = dropUnmatchedOpener(sentence, opener, r)
			}
		}
		if sentence = strings.TrimSpace(sentence); sentence != "" {
			sentences = append(sentences, sentence)
		}
		prev = loc[1]
	}
	if rest := strings.TrimSpace(text[prev:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// dropUnmatchedOpener removes the last opener that has no closer in the
// sentence. A single quote counts as an opener only at the start.
func dropUnmatchedOpener(sentence string, opener, closer rune) string {
	o := string(opener)
	if opener == '\'' {
		trimmed := strings.TrimLeft(sentence, " ")
		if strings.HasPrefix(trimmed, o) {
			return strings.TrimPrefix(trimmed, o)
		}
		return sentence
	}

	unmatched := strings.Count(sentence, o) > strings.Count(sentence, string(closer))
	if opener == closer {
		unmatched = strings.Count(sentence, o)%2 == 1
	}
	if !unmatched {
		return sentence
	}

	i := strings.LastIndex(sentence, o)
	return strings.Join(strings.Fields(sentence[:i]+" "+sentence[i+len(o):]), " ")
}
