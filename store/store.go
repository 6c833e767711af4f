package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/favyen/urbanpolygons/tiles"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned by Load when a tile has no artifact.
var ErrNotFound = errors.New("tile artifact not found")

const suffix = ".graph.gz"

// Path is the artifact location of a tile under dir.
func Path(dir string, tile tiles.ID) string {
	return filepath.Join(dir, fmt.Sprintf("%d_%d_%d%s", tile.Zoom(), tile.X(), tile.Y(), suffix))
}

// Exists reports whether the tile already has an artifact.
func Exists(dir string, tile tiles.ID) bool {
	_, err := os.Stat(Path(dir, tile))
	return err == nil
}

// Encode serializes a snapshot as gzip-compressed msgpack. The same snapshot
// always encodes to the same bytes.
func Encode(snap *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	enc := msgpack.NewEncoder(zw)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(snap); err != nil {
		return nil, errors.Wrap(err, "encode snapshot")
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(data []byte) (*Snapshot, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "open artifact")
	}
	defer zr.Close()
	snap := new(Snapshot)
	if err := msgpack.NewDecoder(zr).Decode(snap); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return snap, nil
}

// Write stores the snapshot under dir. The artifact is written to a
// temporary file first and renamed, so a crash never leaves a partial
// artifact that Exists would accept.
func Write(dir string, snap *Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "write artifact for tile %v", snap.Tile)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, Path(dir, snap.Tile)); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "write artifact for tile %v", snap.Tile)
	}
	return nil
}

// Read decodes an artifact file.
func Read(fname string) (*Snapshot, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", fname)
	}
	return snap, nil
}

// Load reads the artifact of a tile under dir.
func Load(dir string, tile tiles.ID) (*Snapshot, error) {
	snap, err := Read(Path(dir, tile))
	if os.IsNotExist(errors.Cause(err)) {
		return nil, ErrNotFound
	}
	return snap, err
}
