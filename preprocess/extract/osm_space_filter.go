package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/favyen/urbanpolygons/lib"
)

// margin in degrees around each region, so that ways crossing the region
// boundary keep the nodes needed to close their faces
const Margin = 0.01

func main() {
	// e.g. belgium-latest.osm.pbf
	pbfFname := os.Args[1]
	outDir := os.Args[2]

	if err := os.MkdirAll(outDir, 0755); err != nil {
		panic(err)
	}
	for _, region := range lib.Regions {
		if len(os.Args) > 3 && os.Args[3] != region.Name {
			continue
		}
		outFname := filepath.Join(outDir, region.Name+".osm.pbf")
		if _, err := os.Stat(outFname); err == nil {
			continue
		}
		args := []string{
			"extract", "--bbox",
			fmt.Sprintf("%v,%v,%v,%v", region.Min.X-Margin, region.Min.Y-Margin, region.Max.X+Margin, region.Max.Y+Margin),
			"--strategy", "complete_ways",
			pbfFname,
			"-o", outFname,
		}
		log.Println("osmium", args)
		cmd := exec.Command("osmium", args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		err := cmd.Run()
		if err != nil {
			panic(err)
		}
	}
}
