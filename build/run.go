package build

import (
	"context"
	"log"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/favyen/urbanpolygons/tiles"
	"golang.org/x/sync/errgroup"
)

type Summary struct {
	Built   int
	Skipped int
	Failed  int
	Edges   int
	Faces   int
}

// Run builds tiles with up to workers at a time. Every tile gets its own
// graph. A tile that fails is logged and counted; the others carry on. The
// error is only set when ctx is cancelled.
func (b *Builder) Run(ctx context.Context, ids []tiles.ID, workers int) (Summary, error) {
	if workers < 1 {
		workers = 1
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	var mu sync.Mutex
	var summary Summary
	for counter, id := range ids {
		if groupCtx.Err() != nil {
			break
		}
		counter, id := counter, id
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			stats, err := b.BuildTile(id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("tile %v failed: %v", id, err)
				summary.Failed++
				return nil
			}
			if stats.Skipped {
				summary.Skipped++
				return nil
			}
			summary.Built++
			summary.Edges += stats.Edges
			summary.Faces += stats.Faces
			if Verbose || counter%100 == 0 {
				log.Printf("... %d/%d: tile %v with %d faces from %d tiles", counter, len(ids), id, stats.Faces, stats.Tiles)
			}
			return nil
		})
	}
	err := group.Wait()
	if err == nil {
		err = ctx.Err()
	}
	log.Printf("built %s tiles (%s skipped, %s failed): %s edges, %s faces",
		humanize.Comma(int64(summary.Built)), humanize.Comma(int64(summary.Skipped)), humanize.Comma(int64(summary.Failed)),
		humanize.Comma(int64(summary.Edges)), humanize.Comma(int64(summary.Faces)))
	return summary, err
}
