package stylist

import (
	"context"
	"fmt"
	"strings"
)

const analysisPrompt = `
Analyze the SPEAKER'S STYLE and DELIVERY in the following Instagram Reel transcript. Focus on how they speak, their personality and their communication patterns.
Give a numerical rating from 1 to 5 for each feature.

Features to rate:
- Voice Clarity: how clear and understandable is the speech?
- Confidence Level: how assured does the speaker sound?
- Energy & Enthusiasm: how much energy and passion is in the delivery?
- Speaking Pace: is the pace too fast, too slow or just right?
- Vocabulary Richness: quality and variety of the words used
- Authenticity: how genuine and natural does the speaker sound?
- Persuasiveness: how convincing is the delivery?
- Articulation: how well are words pronounced and enunciated?
- Emotional Expression: how well are emotions conveyed through words?
- Professional Tone: how formal or casual is the speaking style?

Also provide:
1. Frequently Used Words / Phrases: 3-5 words or phrases the speaker repeats
2. Speaking Style: the overall style in 1-2 sentences (casual, formal, conversational, energetic, calm)
3. Slang / Colloquialisms: any slang, filler words or regional expressions
4. Personality Indicators: 2-3 traits the speech reveals
5. Overall Feedback: 2-3 sentences on strengths and areas for improvement

Transcript:
"%s"
`

// Analyze returns a free-text style profile for transcript.
func (a *implAnalyzer) Analyze(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", ErrEmptyTranscript
	}

	a.logger.Info(ctx, "Analyzing transcript (%d chars)", len(transcript))

	out, err := a.gen.Generate(ctx, fmt.Sprintf(analysisPrompt, transcript))
	if err != nil {
		return "", fmt.Errorf("analyze style: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("analyze style: empty response")
	}
	return out, nil
}
