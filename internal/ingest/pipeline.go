package ingest

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"gamecard/internal/domain/content"
)

type Warning struct {
	Path string
	Msg  string
}

func (w Warning) String() string {
	if w.Path == "" {
		return w.Msg
	}
	return w.Path + ": " + w.Msg
}

type result struct {
	pos     int
	catalog content.Catalog
	warns   []Warning
	err     error
}

// Ingest reads and parses every source on a worker pool. Catalogs come
// back in the order of sources; a read error aborts the whole run.
func Ingest(ctx context.Context, sources []Source, opt Options) ([]content.Catalog, []Warning, error) {
	if len(sources) == 0 {
		return nil, nil, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(sources) {
		workers = len(sources)
	}
	jobs := make(chan int)
	results := make(chan result, len(sources))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range jobs {
				results <- ingestOne(ctx, pos, sources[pos], opt)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for pos := range sources {
			select {
			case jobs <- pos:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]content.Catalog, len(sources))
	got := make([]bool, len(sources))
	var warns []Warning
	for r := range results {
		if r.err != nil {
			return nil, nil, r.err
		}
		warns = append(warns, r.warns...)
		out[r.pos] = r.catalog
		got[r.pos] = true
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	for pos, ok := range got {
		if !ok {
			return nil, nil, fmt.Errorf("ingest %s: not processed", sources[pos].Path)
		}
	}
	return out, warns, nil
}

func ingestOne(ctx context.Context, pos int, src Source, opt Options) result {
	if err := ctx.Err(); err != nil {
		return result{pos: pos, err: err}
	}
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return result{pos: pos, err: fmt.Errorf("read %s: %w", src.Path, err)}
	}
	entries := Parse(string(raw), opt)
	return result{
		pos: pos,
		catalog: content.Catalog{
			Name:        src.Name,
			SourcePath:  src.Path,
			ContentHash: HashBytes(raw),
			Entries:     entries,
		},
		warns: Lint(src.Path, entries, opt),
	}
}

// Lint reports entries that parsed only through a fallback.
func Lint(path string, entries []content.Entry, opt Options) []Warning {
	if len(entries) == 0 {
		return []Warning{{Path: path, Msg: "no entries found"}}
	}
	var warns []Warning
	untitled := opt.untitled()
	for i, e := range entries {
		if e.Title == untitled {
			warns = append(warns, Warning{Path: path, Msg: fmt.Sprintf("entry %d has no title", i+1)})
		}
		for _, v := range e.Versions {
			if !v.HasURL() {
				warns = append(warns, Warning{
					Path: path,
					Msg:  fmt.Sprintf("entry %d (%s): version %q has no download link", i+1, e.Title, v.Label),
				})
			}
		}
	}
	return warns
}
