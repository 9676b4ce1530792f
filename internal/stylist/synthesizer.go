package stylist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/reel-remix/internal/textgen"
)

const (
	rule             = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	profileSeparator = "\n\n━━━ ANALYSIS FROM NEXT REEL ━━━\n\n"
)

const remixPrompt = `
You are an expert content strategist writing a VERBATIM TALKING SCRIPT for a NEW Instagram Reel.
Remake the content of a viral video into a script that matches one creator's speaking style and personality exactly.

%[1]s

SPEAKER ANALYSIS (from their previous reels):

%[2]s

%[1]s

VIRAL REFERENCE REEL TRANSCRIPT (topic to adapt):

"%[3]s"

%[1]s

MISSION:

Write a WORD-FOR-WORD script that adapts the viral reel's topic. It is not an idea or a summary; it must be ready to read aloud.
A viewer should believe it is 100%% authentic to the speaker, with their rhythm, energy and vocabulary.

%[1]s

MATCHING REQUIREMENTS:

1. Voice and delivery
   - Match the Voice Clarity, Confidence Level and Energy & Enthusiasm ratings
   - Use their Speaking Pace and Articulation style
   - Be exactly as formal or casual as their Professional Tone
2. Linguistic fingerprint
   - Work their Frequently Used Words / Phrases in naturally
   - Keep their Slang / Colloquialisms and Vocabulary Richness level
   - Reflect their Personality Indicators and typical sentence structure
3. Emotion and persuasion
   - Match their Emotional Expression, Persuasiveness and Authenticity
   - Persuade the way they do (logic, emotion or storytelling)
4. Script
   - Write it exactly as the speaker would say it
   - Open with an immediate hook in their tone
   - Turn the points of the viral video into natural spoken dialogue

%[1]s

OUTPUT FORMAT (STRICT):

[REMAKE SCRIPT]
(The full verbatim script. Include characteristic pauses or emphasis suggested by the analysis.)

[DELIVERY NOTES]
- Speaking pace: [fast/moderate/slow based on analysis]
- Key phrases to emphasize: [2-3 from their frequent words]
- Suggested tone shifts: [variations in energy or emotion]

%[1]s

Generate the verbatim REMAKE SCRIPT now:
`

// Synthesize writes one script covering reference in the voice aggregated
// from profiles. Quota exhaustion yields QuotaExceededScript and a nil error.
func (s *implSynthesizer) Synthesize(ctx context.Context, profiles []string, reference string) (string, error) {
	kept := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "", ErrNoProfiles
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return "", ErrEmptyReference
	}

	s.logger.Info(ctx, "Generating remix script from %d analysis(es) and a reference transcript", len(kept))

	script, err := s.gen.Generate(ctx, buildRemixPrompt(kept, reference))
	if err != nil {
		if errors.Is(err, textgen.ErrQuotaExceeded) {
			s.logger.Warn(ctx, "Text generation quota exceeded during synthesis: %v", err)
			return QuotaExceededScript, nil
		}
		return "", &SynthesisError{Profiles: len(kept), Err: err}
	}

	script = strings.TrimSpace(script)
	if script == "" {
		return "", &SynthesisError{Profiles: len(kept), Err: fmt.Errorf("empty response")}
	}
	return script, nil
}

func buildRemixPrompt(profiles []string, reference string) string {
	return fmt.Sprintf(remixPrompt, rule, strings.Join(profiles, profileSeparator), reference)
}
