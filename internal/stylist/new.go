package stylist

import (
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/textgen"
)

type implAnalyzer struct {
	gen    textgen.Generator
	logger logger.Logger
}

type implSynthesizer struct {
	gen    textgen.Generator
	logger logger.Logger
}

// NewAnalyzer creates an Analyzer that prompts gen with the delivery rubric.
func NewAnalyzer(gen textgen.Generator, log logger.Logger) Analyzer {
	return &implAnalyzer{gen: gen, logger: log}
}

// NewSynthesizer creates a Synthesizer backed by gen.
func NewSynthesizer(gen textgen.Generator, log logger.Logger) Synthesizer {
	return &implSynthesizer{gen: gen, logger: log}
}
