package sentiment

import (
	"strings"
)

// SegmentText splits raw text into sentences. The split is deterministic:
// identical input always yields identical output. Whitespace-only input
// yields an empty slice; callers decide whether that is a failure.
//
// A sentence ends at '.', '!' or '?', including any closing quote or bracket
// that follows the terminator. Newlines without a terminator also break
// sentences, which keeps headers and list items in PDF-extracted text from
// gluing onto the next paragraph.
func SegmentText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sentences []string
	var b strings.Builder

	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			flush()
			continue
		}
		b.WriteRune(r)
		if !isTerminator(r) {
			continue
		}
		// Absorb closing punctuation after the terminator.
		for i+1 < len(runes) && isClosing(runes[i+1]) {
			i++
			b.WriteRune(runes[i])
		}
		// Only break when followed by whitespace or end of input, so
		// decimals like "3.5" and dotted names stay intact.
		if i+1 >= len(runes) || isSpace(runes[i+1]) {
			flush()
		}
	}
	flush()

	return sentences
}

// Window is a fixed-length time slice of audio, in seconds.
type Window struct {
	Start float64
	End   float64
}

// Length returns the window duration in seconds.
func (w Window) Length() float64 { return w.End - w.Start }

// SegmentAudio slices [0, duration) into contiguous, non-overlapping windows.
// Every window except the last has length exactly windowSeconds; the last is
// clipped to duration. Zero or negative duration yields nil.
func SegmentAudio(duration, windowSeconds float64) []Window {
	if duration <= 0 || windowSeconds <= 0 {
		return nil
	}

	var windows []Window
	for start := 0.0; start < duration; start += windowSeconds {
		end := start + windowSeconds
		if end > duration {
			end = duration
		}
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isClosing(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
