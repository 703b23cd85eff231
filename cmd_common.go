package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/kmersync/kiblt/kiblterr"
	"github.com/kmersync/kiblt/kmerview"
	"github.com/kmersync/kiblt/sampler"
)

// bases is the inverse of kmerview's internal nucleotide table, used
// only for human-readable output.
var bases = [4]byte{'A', 'C', 'G', 'T'}

func decodeKmer(kmer uint64, k uint8) string {
	out := make([]byte, k)
	for i := int(k) - 1; i >= 0; i-- {
		out[i] = bases[kmer&3]
		kmer >>= 2
	}
	return string(out)
}

// openRecordSource builds a kmerview.RecordSource over path, choosing
// the framing by format ("fasta", "fastq", "raw") and transparently
// gunzipping and chunk-caching the underlying file.
func openRecordSource(path, format string, chunkSize int) (kmerview.RecordSource, io.Closer, error) {
	rc, err := kmerview.OpenSource(path, chunkSize)
	if err != nil {
		return nil, nil, kiblterr.Wrap(kiblterr.CodeIO, "open input", err)
	}
	switch format {
	case "fasta":
		return kmerview.NewFastaReader(rc), rc, nil
	case "fastq":
		return kmerview.NewFastqReader(rc), rc, nil
	case "raw":
		return kmerview.NewRawReader(rc), rc, nil
	default:
		rc.Close()
		return nil, nil, kiblterr.New(kiblterr.CodeInvalidParams, fmt.Sprintf("unsupported format %q", format))
	}
}

// flatKmerSource is the Next/Kmer shape shared by kmerview.Stream and
// every sampler.
type flatKmerSource interface {
	Next() (bool, error)
	Kmer() uint64
}

// buildKmerSource composes the kmerview.Stream for path with the
// sampling stage(s) selected by the build and count commands' shared
// flags. The returned source yields the keys that actually get
// inserted into a sketch or counted.
func buildKmerSource(
	path, format string,
	chunkSize int,
	k uint8,
	canonical bool,
	samplerMode string,
	z, o1, o2, window uint8,
	sampleSeed uint64,
	unique bool,
) (flatKmerSource, io.Closer, error) {
	recs, closer, err := openRecordSource(path, format, chunkSize)
	if err != nil {
		return nil, nil, err
	}
	stream := kmerview.NewStream(k, canonical, recs)

	var src flatKmerSource = stream
	switch samplerMode {
	case "", "none":
	case "syncmer":
		src = sampler.NewSyncmerSampler(src, k, z, o1, o2, sampleSeed)
	case "minimizer":
		src = sampler.NewMinimizerSampler(src, window, sampleSeed)
	default:
		closer.Close()
		return nil, nil, kiblterr.New(kiblterr.CodeInvalidParams, fmt.Sprintf("unsupported sampler mode %q", samplerMode))
	}
	if unique {
		src = sampler.NewOrderedUniqueSampler(src)
	}
	return src, closer, nil
}

// digestFileXXH64 computes a fast, non-cryptographic content digest of
// path, used to fingerprint a build's input alongside its recorded
// provenance. Unlike hashFileSha256 in config.go, which fingerprints
// small config files, this runs over genomic input files that can be
// gigabytes long, where xxhash's throughput matters.
func digestFileXXH64(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
