package osmdata

import (
	"io"
	"log"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/qedus/osmpbf"
)

// ReadPBF loads every node and every tagged way of an OSM PBF extract into a
// MemoryProvider at the given zoom.
func ReadPBF(fname string, zoom int) (*MemoryProvider, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, "open pbf")
	}
	defer f.Close()

	d := osmpbf.NewDecoder(f)
	d.SetBufferSize(osmpbf.MaxBlobSize)
	if err := d.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return nil, errors.Wrap(err, "start pbf decoder")
	}

	p := NewMemoryProvider(zoom)
	var numNodes, numWays uint64
	for {
		v, err := d.Decode()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "decode %s", fname)
		}
		switch v := v.(type) {
		case *osmpbf.Node:
			p.AddNode(Node{ID: v.ID, Lon: v.Lon, Lat: v.Lat})
			numNodes++
		case *osmpbf.Way:
			if len(v.Tags) == 0 {
				continue
			}
			p.AddWay(Way{ID: v.ID, NodeIDs: v.NodeIDs, Tags: NewTags(v.Tags)})
			numWays++
		}
	}
	log.Printf("read %s: %s nodes, %s tagged ways in %s tiles", fname, humanize.Comma(int64(numNodes)), humanize.Comma(int64(numWays)), humanize.Comma(int64(len(p.tileWays))))
	return p, nil
}
