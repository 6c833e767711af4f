package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/favyen/urbanpolygons/build"
	"github.com/favyen/urbanpolygons/config"
	"github.com/favyen/urbanpolygons/landuse"
	"github.com/favyen/urbanpolygons/osmdata"
	"github.com/favyen/urbanpolygons/tiles"
)

func main() {
	// e.g. antwerp.toml
	cfg, err := config.Load(os.Args[1])
	if err != nil {
		panic(err)
	}
	cfg.Logging.SetLogger()
	build.Verbose = cfg.Build.Verbose

	cacheSize, err := cfg.Build.CacheBytes()
	if err != nil {
		panic(err)
	}

	log.Printf("reading %s", cfg.Build.PBF)
	data, err := osmdata.ReadPBF(cfg.Build.PBF, cfg.Build.Zoom)
	if err != nil {
		panic(err)
	}
	log.Printf("read %s ways over %s tiles", humanize.Comma(int64(data.WayCount())), humanize.Comma(int64(len(data.Tiles()))))
	provider := osmdata.NewCachedProvider(data, cacheSize)

	// explicit tiles given as z/x/y or way/<id> override the configured area
	var ids []tiles.ID
	if len(os.Args) > 2 {
		seen := make(map[tiles.ID]bool)
		for _, arg := range os.Args[2:] {
			for _, id := range parseTarget(data, arg) {
				if seen[id] {
					continue
				}
				seen[id] = true
				ids = append(ids, id)
			}
		}
	} else {
		ids, err = cfg.Build.Tiles()
		if err != nil {
			panic(err)
		}
	}

	builder := &build.Builder{
		Provider: provider,
		Barriers: osmdata.DefaultBarriers,
		Landuse:  landuse.NewTileSource(provider, cfg.Build.Zoom),
		Dir:      cfg.Build.Output,
		Zoom:     cfg.Build.Zoom,
		MaxTiles: cfg.Build.MaxTiles,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Printf("building %d tiles at zoom %d with %d workers into %s", len(ids), cfg.Build.Zoom, cfg.Build.Workers, cfg.Build.Output)
	summary, err := builder.Run(ctx, ids, cfg.Build.Workers)
	log.Printf("tile cache hit rate %.2f", provider.HitRate())
	if err != nil {
		log.Printf("stopped: %v", err)
		os.Exit(1)
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// parseTarget resolves one command-line target: a z/x/y tile, or way/<id>
// for every tile the way was indexed under.
func parseTarget(data *osmdata.MemoryProvider, arg string) []tiles.ID {
	if !strings.HasPrefix(arg, "way/") {
		id, err := tiles.Parse(arg)
		if err != nil {
			panic(err)
		}
		return []tiles.ID{id}
	}
	wayID, err := strconv.ParseInt(strings.TrimPrefix(arg, "way/"), 10, 64)
	if err != nil {
		panic(err)
	}
	ids := data.WayTiles(wayID)
	if len(ids) == 0 {
		log.Printf("way %d is not in any tile", wayID)
	}
	return ids
}
