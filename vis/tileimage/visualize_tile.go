package main

import (
	"log"
	"os"

	"github.com/favyen/urbanpolygons/landuse"
	"github.com/favyen/urbanpolygons/store"
	"github.com/favyen/urbanpolygons/tiles"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/mitroadmaps/gomapinfer/image"
)

const Size = 1024

var Colors = map[string][3]uint8{
	landuse.Residential:  {240, 200, 150},
	landuse.Commercial:   {240, 150, 170},
	landuse.Industrial:   {190, 170, 210},
	landuse.Agricultural: {230, 230, 150},
	landuse.Forest:       {90, 160, 90},
	landuse.Park:         {170, 220, 140},
	landuse.Water:        {140, 180, 230},
	landuse.Cemetery:     {170, 200, 180},
	landuse.Education:    {250, 230, 130},
	landuse.Railway:      {180, 180, 180},
}

var (
	Unknown  = [3]uint8{225, 225, 225}
	Barrier  = [3]uint8{0, 0, 0}
	Junction = [3]uint8{230, 0, 0}
)

// ray casting over the unordered edges of a face
func inside(p common.Point, segments []common.Segment) bool {
	in := false
	for _, segment := range segments {
		a, b := segment.Start, segment.End
		if (a.Y > p.Y) == (b.Y > p.Y) {
			continue
		}
		x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
		if p.X < x {
			in = !in
		}
	}
	return in
}

func main() {
	// e.g. tiles/
	dir := os.Args[1]
	// e.g. 14/8392/5468
	tile, err := tiles.Parse(os.Args[2])
	if err != nil {
		panic(err)
	}
	outFname := os.Args[3]

	snap, err := store.Load(dir, tile)
	if err != nil {
		panic(err)
	}
	box := tile.Box()
	toPixel := func(p common.Point) [2]int {
		x := (p.X - box.Min.X) / (box.Max.X - box.Min.X) * Size
		y := (box.Max.Y - p.Y) / (box.Max.Y - box.Min.Y) * Size
		return [2]int{int(x), int(y)}
	}
	fromPixel := func(x int, y int) common.Point {
		return common.Point{
			X: box.Min.X + (float64(x)+0.5)/Size*(box.Max.X-box.Min.X),
			Y: box.Max.Y - (float64(y)+0.5)/Size*(box.Max.Y-box.Min.Y),
		}
	}

	im := image.MakeImage(Size, Size, [3]uint8{255, 255, 255})

	for face, edges := range snap.FaceEdges() {
		color := Unknown
		if category, ok := snap.Faces[face].Dominant(); ok {
			if c, ok := Colors[category]; ok {
				color = c
			}
		}
		var segments []common.Segment
		rect := common.EmptyRectangle
		for _, e := range edges {
			points := snap.EdgePoints(e)
			for i := 0; i+1 < len(points); i++ {
				segments = append(segments, common.Segment{Start: points[i], End: points[i+1]})
				rect = rect.Extend(points[i])
			}
			rect = rect.Extend(points[len(points)-1])
		}
		start := toPixel(common.Point{X: rect.Min.X, Y: rect.Max.Y})
		end := toPixel(common.Point{X: rect.Max.X, Y: rect.Min.Y})
		for x := start[0]; x <= end[0]; x++ {
			if x < 0 || x >= Size {
				continue
			}
			for y := start[1]; y <= end[1]; y++ {
				if y < 0 || y >= Size {
					continue
				}
				if inside(fromPixel(x, y), segments) {
					im[x][y] = color
				}
			}
		}
	}

	for e := range snap.Edges {
		points := snap.EdgePoints(e)
		for i := 0; i+1 < len(points); i++ {
			s := toPixel(points[i])
			t := toPixel(points[i+1])
			for _, p := range common.DrawLineOnCells(s[0], s[1], t[0], t[1], Size, Size) {
				if p[0] < 0 || p[0] >= Size || p[1] < 0 || p[1] >= Size {
					continue
				}
				im[p[0]][p[1]] = Barrier
			}
		}
	}
	for _, v := range snap.Vertices {
		p := toPixel(v.Point())
		if p[0] < 2 || p[0] >= Size-2 || p[1] < 2 || p[1] >= Size-2 {
			continue
		}
		image.DrawRect(im, p[0], p[1], 2, Junction)
	}

	log.Printf("tile %v: %d vertices, %d edges, %d faces", tile, len(snap.Vertices), len(snap.Edges), len(snap.Faces)-1)
	image.WriteImage(outFname, im)
}
