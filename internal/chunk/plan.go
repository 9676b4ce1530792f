// Package chunk plans the time windows an audio track is transcribed in.
package chunk

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DirectThreshold is the longest track transcribed in a single call.
	DirectThreshold = 30 * time.Second

	// DefaultMaxLength stays under the speech provider's 30s segment limit.
	DefaultMaxLength = 25 * time.Second
)

var (
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrInvalidChunkLength = errors.New("invalid chunk length")
)

// Window is a span of an audio track handled by one transcription call.
type Window struct {
	Start  time.Duration `json:"start"`
	Length time.Duration `json:"length"`
}

// End returns the exclusive end of the window.
func (w Window) End() time.Duration {
	return w.Start + w.Length
}

func (w Window) String() string {
	return fmt.Sprintf("[%s+%s]", w.Start, w.Length)
}

// Plan splits total into ordered, contiguous windows of maxLength.
// Tracks up to DirectThreshold get one window covering the whole track.
// The last window is not shortened; the clipper stops at end of input.
// A zero maxLength means DefaultMaxLength.
func Plan(total, maxLength time.Duration) ([]Window, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDuration, total)
	}
	if maxLength < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidChunkLength, maxLength)
	}
	if maxLength == 0 {
		maxLength = DefaultMaxLength
	}

	if total <= DirectThreshold {
		return []Window{{Start: 0, Length: total}}, nil
	}

	n := int((total + maxLength - 1) / maxLength)
	windows := make([]Window, n)
	for k := range n {
		windows[k] = Window{Start: time.Duration(k) * maxLength, Length: maxLength}
	}
	return windows, nil
}

// Seconds converts a float number of seconds, as reported by ffprobe, to a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
