// Package scanner walks a directory tree, extracts audio file metadata and
// streams album clusters to the lookup stage as they are discovered.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chmont/crate/internal/tags"
)

const (
	// ClusterQueueSize bounds the cluster handoff channel. Once it is
	// full the walker blocks, pacing the scan to remote-lookup speed.
	ClusterQueueSize = 5

	numWorkers = 8
)

// Progress reports the advance of a directory walk.
type Progress struct {
	Dir           string
	ClustersFound int
}

// Scanner walks a directory tree and streams album clusters.
type Scanner struct {
	// Extract reads one file's metadata. Defaults to tags.Read;
	// replaceable in tests.
	Extract func(path string) (*tags.Tag, error)
}

// New returns a Scanner using the tags package for extraction.
func New() *Scanner {
	return &Scanner{Extract: tags.Read}
}

// Scan recursively enumerates root depth-first, visiting subdirectories
// before clustering each directory's own files. Every cluster is sent on
// clusters (blocking when the channel is full); a Progress is sent on
// progress after each cluster, dropped if nobody is ready to receive.
// Files that fail extraction are skipped silently; a directory that cannot
// be read aborts the walk. Scan returns every extracted file record and
// closes clusters when the walk ends.
func (s *Scanner) Scan(ctx context.Context, root string, clusters chan<- Cluster, progress chan<- Progress) ([]tags.Tag, error) {
	defer close(clusters)

	var all []tags.Tag
	var found int
	if err := s.scanDir(ctx, root, clusters, progress, &all, &found); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *Scanner) scanDir(ctx context.Context, dir string, clusters chan<- Cluster, progress chan<- Progress, all *[]tags.Tag, found *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	var subdirs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if strings.HasPrefix(name, ".") {
				continue
			}
			subdirs = append(subdirs, filepath.Join(dir, name))
			continue
		}
		if tags.IsAudioFile(name) {
			files = append(files, filepath.Join(dir, name))
		}
	}

	// Subdirectories first (depth-first).
	for _, sub := range subdirs {
		if err := s.scanDir(ctx, sub, clusters, progress, all, found); err != nil {
			return err
		}
	}

	if len(files) == 0 {
		return nil
	}

	// A directory's files cluster independently of its siblings and
	// children; the grouping key includes the containing path.
	extracted := s.extractAll(ctx, files)
	if len(extracted) == 0 {
		return ctx.Err()
	}
	*all = append(*all, extracted...)

	for _, cluster := range ClusterFiles(extracted) {
		select {
		case clusters <- cluster:
		case <-ctx.Done():
			return ctx.Err()
		}
		*found++
		select {
		case progress <- Progress{Dir: dir, ClustersFound: *found}:
		default: // never stall the walk on a slow consumer
		}
	}
	return nil
}

// extractAll reads tags from files on a fixed worker pool. Completion
// order does not matter; clustering re-sorts tracks anyway.
func (s *Scanner) extractAll(ctx context.Context, files []string) []tags.Tag {
	workCh := make(chan string, len(files))
	resultCh := make(chan tags.Tag, len(files))

	var wg sync.WaitGroup
	for range min(numWorkers, len(files)) {
		wg.Go(func() {
			for path := range workCh {
				if ctx.Err() != nil {
					continue
				}
				t, err := s.Extract(path)
				if err != nil {
					continue // unreadable file, skip
				}
				resultCh <- *t
			}
		})
	}

	for _, f := range files {
		workCh <- f
	}
	close(workCh)
	wg.Wait()
	close(resultCh)

	extracted := make([]tags.Tag, 0, len(files))
	for t := range resultCh {
		extracted = append(extracted, t)
	}
	return extracted
}
