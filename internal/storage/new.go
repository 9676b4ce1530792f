package storage

import (
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
)

// PublicPrefix is the URL prefix the HTTP server serves the root under.
const PublicPrefix = "/downloads"

type implStore struct {
	root    string
	tempDir string
	mirror  Mirror
	logger  logger.Logger
}

// New creates a Store rooted at root with scratch files in tempDir.
// mirror may be nil.
func New(root, tempDir string, mirror Mirror, log logger.Logger) Store {
	return &implStore{
		root:    root,
		tempDir: tempDir,
		mirror:  mirror,
		logger:  log,
	}
}
