// Package sketchio persists an iblt.IBLT to and from a deterministic,
// big-endian byte layout. Save and Load share the field order defined
// by iblt.IBLT.Visit, driven by the two Visitor implementations in
// this package, so a round trip is total by construction.
package sketchio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/kmersync/kiblt/iblt"
	"github.com/kmersync/kiblt/indexmeta"
	"github.com/kmersync/kiblt/kiblterr"
)

// Magic identifies a sketch file. FormatVersion is bumped on any
// incompatible change to the field order or width below.
var Magic = [8]byte{'k', 'i', 'b', 'l', 't', 's', 'k', '1'}

const FormatVersion uint8 = 1

// Metadata key names used by the optional provenance block.
var (
	MetaKeyBuildTool   = []byte("build_tool")
	MetaKeySource      = []byte("source")
	MetaKeyBuiltAt     = []byte("built_at")
	MetaKeySourceXXH64 = []byte("source_xxh64")
)

// Save writes sketch to w, followed by an optional provenance block
// when meta is non-nil and non-empty.
func Save(w io.Writer, sketch *iblt.IBLT, meta *indexmeta.Meta) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(Magic[:]); err != nil {
		return kiblterr.Wrap(kiblterr.CodeIO, "write magic", err)
	}
	if err := bw.WriteByte(FormatVersion); err != nil {
		return kiblterr.Wrap(kiblterr.CodeIO, "write version", err)
	}

	sv := &saveVisitor{w: bw}
	if err := sketch.Visit(sv); err != nil {
		return err
	}
	if sv.err != nil {
		return kiblterr.Wrap(kiblterr.CodeIO, "write sketch body", sv.err)
	}

	var metaBytes []byte
	if meta != nil && len(meta.KeyVals) > 0 {
		b, err := meta.MarshalBinary()
		if err != nil {
			return kiblterr.Wrap(kiblterr.CodeMalformedInput, "marshal provenance metadata", err)
		}
		metaBytes = b
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(metaBytes)))
	if _, err := bw.Write(lenBuf[:]); err != nil {
		return kiblterr.Wrap(kiblterr.CodeIO, "write metadata length", err)
	}
	if len(metaBytes) > 0 {
		if _, err := bw.Write(metaBytes); err != nil {
			return kiblterr.Wrap(kiblterr.CodeIO, "write metadata", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return kiblterr.Wrap(kiblterr.CodeIO, "flush", err)
	}
	return nil
}

// SaveFile creates (or truncates) path and saves sketch into it,
// preallocating the expected file size first so the write is a single
// contiguous extent where the filesystem supports it.
func SaveFile(path string, sketch *iblt.IBLT, meta *indexmeta.Meta) error {
	f, err := os.Create(path)
	if err != nil {
		return kiblterr.Wrap(kiblterr.CodeIO, "create sketch file", err)
	}
	defer f.Close()

	want := int64(len(Magic)) + 1 + estimatedBodySize(sketch) + 4
	_ = preallocate(f, want) // best effort; absence of support is not fatal

	if err := Save(f, sketch, meta); err != nil {
		return err
	}
	return nil
}

func estimatedBodySize(sketch *iblt.IBLT) int64 {
	return 1 + 4 + 8 + 1 + 8 + 8 +
		int64(4+ceilDiv(sketch.NumBuckets(), 4)) +
		int64(4+sketch.NumBuckets()*uint64(sketch.BucketSize())) +
		int64(sketch.R())*4 + 8
}

func ceilDiv(a, b uint64) uint64 { return (a + b - 1) / b }

// Load reads a sketch previously written by Save, along with its
// optional provenance metadata (nil if none was stored).
func Load(r io.Reader) (*iblt.IBLT, *indexmeta.Meta, error) {
	br := bufio.NewReader(r)

	var magic [8]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, nil, kiblterr.Wrap(kiblterr.CodeIO, "read magic", err)
	}
	if magic != Magic {
		return nil, nil, kiblterr.New(kiblterr.CodeBadMagic, "sketch file magic mismatch")
	}
	version, err := br.ReadByte()
	if err != nil {
		return nil, nil, kiblterr.Wrap(kiblterr.CodeIO, "read version", err)
	}
	if version != FormatVersion {
		return nil, nil, kiblterr.New(kiblterr.CodeVersionMismatch,
			fmt.Sprintf("sketch file format version %d unsupported", version))
	}

	sketch := iblt.Blank()
	lv := &loadVisitor{r: br}
	if err := sketch.Visit(lv); err != nil {
		return nil, nil, err
	}
	if lv.err != nil {
		return nil, nil, kiblterr.Wrap(kiblterr.CodeIO, "read sketch body", lv.err)
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
		return nil, nil, kiblterr.Wrap(kiblterr.CodeIO, "read metadata length", err)
	}
	metaLen := binary.BigEndian.Uint32(lenBuf[:])
	var meta *indexmeta.Meta
	if metaLen > 0 {
		buf := make([]byte, metaLen)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, nil, kiblterr.Wrap(kiblterr.CodeIO, "read metadata", err)
		}
		meta = &indexmeta.Meta{}
		if err := meta.UnmarshalBinary(buf); err != nil {
			return nil, nil, kiblterr.Wrap(kiblterr.CodeMalformedInput, "unmarshal provenance metadata", err)
		}
	}

	return sketch, meta, nil
}

// LoadFile opens path and loads a sketch from it.
func LoadFile(path string) (*iblt.IBLT, *indexmeta.Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, kiblterr.Wrap(kiblterr.CodeIO, "open sketch file", err)
	}
	defer f.Close()
	return Load(f)
}

// Float32Bits/FromBits convert explicitly through IEEE-754 rather than
// reinterpreting memory, matching the redesign's avoidance of
// union-style punning for cross-platform float serialisation.
func float32Bits(v float64) uint32    { return math.Float32bits(float32(v)) }
func float32FromBits(b uint32) float64 { return float64(math.Float32frombits(b)) }
