package stylist

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// QuotaExceededScript is returned in place of a script when the text backend
// is out of quota. Callers surface it to the user as is.
const QuotaExceededScript = "ERROR: AI Quota Exceeded. Please try again in a few minutes."

const softFailurePrefix = "ERROR:"

var (
	ErrEmptyTranscript = errors.New("transcript is empty")
	ErrNoProfiles      = errors.New("no style profiles supplied")
	ErrEmptyReference  = errors.New("reference transcript is empty")
)

// SynthesisError reports a remix generation failure that is not a quota issue.
type SynthesisError struct {
	Profiles int
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesize remix from %d profile(s): %v", e.Profiles, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Analyzer rates the delivery style of a single transcript.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (string, error)
}

// Synthesizer rewrites a reference transcript in the voice described by profiles.
type Synthesizer interface {
	Synthesize(ctx context.Context, profiles []string, reference string) (string, error)
}

// IsSoftFailure reports whether script is a user-facing failure message
// rather than generated content.
func IsSoftFailure(script string) bool {
	return strings.HasPrefix(script, softFailurePrefix)
}
