package pipeline

import (
	"time"

	"github.com/nguyentantai21042004/reel-remix/internal/fetcher"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/media"
	"github.com/nguyentantai21042004/reel-remix/internal/resolver"
	"github.com/nguyentantai21042004/reel-remix/internal/speech"
	"github.com/nguyentantai21042004/reel-remix/internal/storage"
	"github.com/nguyentantai21042004/reel-remix/internal/stylist"
)

type implAssembler struct {
	media       media.Transcoder
	speech      speech.Transcriber
	store       storage.Store
	maxChunk    time.Duration
	concurrency int
	logger      logger.Logger
}

// NewAssembler creates an Assembler that transcribes at most concurrency
// windows of one item at a time.
func NewAssembler(tc media.Transcoder, tr speech.Transcriber, store storage.Store, maxChunk time.Duration, concurrency int, log logger.Logger) Assembler {
	return &implAssembler{
		media:       tc,
		speech:      tr,
		store:       store,
		maxChunk:    maxChunk,
		concurrency: concurrency,
		logger:      log,
	}
}

// ItemDeps are the collaborators of an ItemPipeline.
type ItemDeps struct {
	Fetcher     fetcher.Fetcher
	Transcoder  media.Transcoder
	Assembler   Assembler
	Analyzer    stylist.Analyzer
	Store       storage.Store
	AudioFormat string
}

type implItemPipeline struct {
	deps   ItemDeps
	now    func() time.Time
	logger logger.Logger
}

// NewItemPipeline creates an ItemPipeline.
func NewItemPipeline(deps ItemDeps, log logger.Logger) ItemPipeline {
	if deps.AudioFormat == "" {
		deps.AudioFormat = "mp3"
	}
	return &implItemPipeline{
		deps:   deps,
		now:    time.Now,
		logger: log,
	}
}

// BatchDeps are the collaborators of a Batch. Recorder may be nil.
type BatchDeps struct {
	Resolver      resolver.Resolver
	Items         ItemPipeline
	Synthesizer   stylist.Synthesizer
	Store         storage.Store
	Recorder      Recorder
	MaxConcurrent int
}

type implBatch struct {
	deps   BatchDeps
	now    func() time.Time
	logger logger.Logger
}

// NewBatch creates a Batch.
func NewBatch(deps BatchDeps, log logger.Logger) Batch {
	if deps.MaxConcurrent < 1 {
		deps.MaxConcurrent = 1
	}
	return &implBatch{
		deps:   deps,
		now:    time.Now,
		logger: log,
	}
}
