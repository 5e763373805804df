package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"snaps/internal/domain"
)

// DirectoryLoader reads every eligible file under a corpus directory into a
// Document. Files are matched against include/exclude glob patterns;
// everything else is silently skipped. Reads are parallelised on a bounded
// worker pool and merged back in path order so the output is deterministic.
type DirectoryLoader struct {
	includes []string
	excludes []string
	workers  int
}

func NewDirectoryLoader(includes, excludes []string, workers int) *DirectoryLoader {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	if workers <= 0 {
		workers = 4
	}
	return &DirectoryLoader{
		includes: includes,
		excludes: excludes,
		workers:  workers,
	}
}

// Load returns one Document per eligible file under dir, in path order.
// A missing directory or an empty corpus is a domain.LoadError: the pipeline
// cannot build a useful index without source material.
func (l *DirectoryLoader) Load(ctx context.Context, dir string) ([]domain.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &domain.LoadError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.LoadError{Dir: dir, Err: errors.New("not a directory")}
	}

	paths, err := l.eligiblePaths(dir)
	if err != nil {
		return nil, &domain.LoadError{Dir: dir, Err: err}
	}
	if len(paths) == 0 {
		return nil, &domain.LoadError{Dir: dir, Err: errors.New("no eligible documents found")}
	}

	docs, err := l.readAll(ctx, paths)
	if err != nil {
		return nil, &domain.LoadError{Dir: dir, Err: err}
	}
	return docs, nil
}

// eligiblePaths walks dir and collects files matching the include patterns
// and none of the exclude patterns. filepath.Walk yields lexical order, so
// the result is already sorted.
func (l *DirectoryLoader) eligiblePaths(dir string) ([]string, error) {
	var paths []string

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if l.shouldExclude(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if l.shouldInclude(relPath) && !l.shouldExclude(relPath) {
			paths = append(paths, path)
		}
		return nil
	})

	return paths, err
}

// readAll fans the file reads out over the worker pool. Each worker writes
// into its own slot of the result slice, so no ordering is lost and no
// mutable state is shared beyond the collection point.
func (l *DirectoryLoader) readAll(ctx context.Context, paths []string) ([]domain.Document, error) {
	type job struct {
		idx  int
		path string
	}

	docs := make([]domain.Document, len(paths))
	jobs := make(chan job)
	errCh := make(chan error, len(paths))

	var wg sync.WaitGroup
	for w := 0; w < l.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				data, err := os.ReadFile(j.path)
				if err != nil {
					errCh <- fmt.Errorf("read %s: %w", j.path, err)
					continue
				}
				docs[j.idx] = domain.Document{
					Content: string(data),
					Source:  j.path,
				}
				errCh <- nil
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, p := range paths {
			select {
			case jobs <- job{idx: i, path: p}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var firstErr error
	for range paths {
		select {
		case err := <-errCh:
			if err != nil && firstErr == nil {
				firstErr = err
			}
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return docs, nil
}

func (l *DirectoryLoader) shouldInclude(path string) bool {
	for _, pattern := range l.includes {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (l *DirectoryLoader) shouldExclude(path string) bool {
	for _, pattern := range l.excludes {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}
