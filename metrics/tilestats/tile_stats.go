package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/favyen/urbanpolygons/lib"
	"github.com/favyen/urbanpolygons/store"
)

type TileStats struct {
	Tile     string `json:"tile"`
	Bytes    int64  `json:"bytes"`
	Tiles    int    `json:"tiles"`
	Vertices int    `json:"vertices"`
	Edges    int    `json:"edges"`
	Faces    int    `json:"faces"`

	// faces with some land use
	Attributed int `json:"attributed"`

	// number of faces per dominant category
	Dominant map[string]int `json:"dominant"`

	// barrier length in degrees
	Length float64 `json:"length"`
}

func tileStats(fname string) TileStats {
	snap, err := store.Read(fname)
	if err != nil {
		panic(err)
	}
	info, err := os.Stat(fname)
	if err != nil {
		panic(err)
	}
	stats := TileStats{
		Tile:     snap.Tile.String(),
		Bytes:    info.Size(),
		Tiles:    len(snap.Tiles),
		Vertices: len(snap.Vertices),
		Edges:    len(snap.Edges),
		Faces:    len(snap.Faces) - 1,
		Dominant: make(map[string]int),
	}
	for _, face := range snap.Faces[1:] {
		category, ok := face.Dominant()
		if !ok {
			continue
		}
		stats.Attributed++
		stats.Dominant[category]++
	}
	for e := range snap.Edges {
		points := snap.EdgePoints(e)
		for i := 0; i+1 < len(points); i++ {
			stats.Length += points[i].Distance(points[i+1])
		}
	}
	return stats
}

func main() {
	// e.g. tiles/
	dir := os.Args[1]
	outFname := os.Args[2]

	fnames, err := filepath.Glob(filepath.Join(dir, "*.graph.gz"))
	if err != nil {
		panic(err)
	}
	sort.Strings(fnames)

	var all []TileStats
	var total TileStats
	total.Dominant = make(map[string]int)
	for counter, fname := range fnames {
		if counter%1000 == 0 {
			fmt.Println(counter, "/", len(fnames))
		}
		stats := tileStats(fname)
		all = append(all, stats)
		total.Bytes += stats.Bytes
		total.Edges += stats.Edges
		total.Faces += stats.Faces
		total.Attributed += stats.Attributed
		for category, n := range stats.Dominant {
			total.Dominant[category] += n
		}
	}
	lib.WriteJSONFile(outFname, all)

	fmt.Printf("%s tiles in %s: %s edges, %s faces (%s with land use)\n",
		humanize.Comma(int64(len(all))), humanize.Bytes(uint64(total.Bytes)),
		humanize.Comma(int64(total.Edges)), humanize.Comma(int64(total.Faces)), humanize.Comma(int64(total.Attributed)))
	var categories []string
	for category := range total.Dominant {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Printf("  %s: %s\n", category, humanize.Comma(int64(total.Dominant[category])))
	}
}
