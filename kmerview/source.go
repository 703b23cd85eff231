package kmerview

import (
	"bufio"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/kmersync/kiblt/readahead"
)

// DefaultChunkSize matches the teacher's chunked caching reader:
// large enough that a FASTA/FASTQ record boundary never forces a
// short read mid-sequence.
const DefaultChunkSize = readahead.DefaultChunkSize

// OpenSource opens path and returns a buffered, read-ahead reader over
// its contents (via the shared readahead.CachingReader), transparently
// gunzipping if the leading bytes carry the gzip magic number.
// chunkSize <= 0 selects DefaultChunkSize.
func OpenSource(path string, chunkSize int) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	cr, err := readahead.NewCachingReaderFromReader(f, chunkSize)
	if err != nil {
		f.Close()
		return nil, err
	}

	peekable := bufio.NewReaderSize(cr, 2)
	magic, err := peekable.Peek(2)
	if err != nil && err != io.EOF {
		cr.Close()
		return nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(peekable)
		if err != nil {
			cr.Close()
			return nil, err
		}
		return &gunzipSource{gz: gz, src: cr}, nil
	}
	return &bufferedSource{r: peekable, src: cr}, nil
}

// bufferedSource is a plain passthrough carrying the close of the
// underlying read-ahead reader alongside the small peek buffer placed
// in front of it for gzip sniffing.
type bufferedSource struct {
	r   *bufio.Reader
	src *readahead.CachingReader
}

func (b *bufferedSource) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *bufferedSource) Close() error                { return b.src.Close() }

// gunzipSource wraps a gzip reader so Close also closes the underlying source.
type gunzipSource struct {
	gz  *gzip.Reader
	src *readahead.CachingReader
}

func (g *gunzipSource) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gunzipSource) Close() error {
	gzErr := g.gz.Close()
	srcErr := g.src.Close()
	if gzErr != nil {
		return gzErr
	}
	return srcErr
}
