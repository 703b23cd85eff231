package kmerview

import (
	"bufio"
	"io"
)

// RecordSource yields successive records' base bytes, with headers
// and quality strings already stripped (FASTA ';' comment lines are not
// recognised and are kept as sequence text). A record
// boundary is always a hard break: ok=true with a fresh slice means a
// new record started, never a continuation of the previous one.
type RecordSource interface {
	NextRecord() (bases []byte, ok bool, err error)
}

// Stream composes a RecordSource with a View, treating every record
// boundary the RecordSource reports as a break, so k-mers never span
// two records.
type Stream struct {
	view    *View
	records RecordSource
}

// NewStream builds a canonical-k-mer stream over recs.
func NewStream(k uint8, canonical bool, recs RecordSource) *Stream {
	return &Stream{view: New(k, canonical), records: recs}
}

// Next advances to the next k-mer, pulling further records as needed.
// It returns false exactly once the underlying source is consumed.
func (s *Stream) Next() (bool, error) {
	for {
		if s.view.Next() {
			return true, nil
		}
		rec, ok, err := s.records.NextRecord()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		s.view.Reset(rec)
	}
}

// Kmer returns the current canonical k-mer.
func (s *Stream) Kmer() uint64 { return s.view.Kmer() }

// FastaReader is a RecordSource over FASTA-formatted text: lines
// beginning with '>' start a new record and are discarded; all other
// lines are concatenated as that record's bases until the next '>' or
// end of input.
type FastaReader struct {
	r         *bufio.Reader
	sawHeader bool // leading '>' for the current record was already consumed by a prior call's lookahead
	eof       bool
}

// NewFastaReader wraps r as a FASTA record source.
func NewFastaReader(r io.Reader) *FastaReader {
	return &FastaReader{r: bufio.NewReaderSize(r, 64*1024)}
}

func (f *FastaReader) NextRecord() ([]byte, bool, error) {
	if f.eof {
		return nil, false, nil
	}

	var buf []byte
	haveRecord := f.sawHeader
	f.sawHeader = false

	for {
		line, err := f.r.ReadBytes('\n')
		trimmed := trimEOL(line)
		if len(trimmed) > 0 {
			if trimmed[0] == '>' {
				if haveRecord {
					f.sawHeader = true
					return buf, true, nil
				}
				haveRecord = true
			} else if haveRecord {
				buf = append(buf, trimmed...)
			}
		}
		if err != nil {
			if err != io.EOF {
				return nil, false, err
			}
			f.eof = true
			if haveRecord {
				return buf, true, nil
			}
			return nil, false, nil
		}
	}
}

// FastqReader is a RecordSource over FASTQ-formatted text: each
// record is four lines (header, sequence, '+' separator, quality);
// only the sequence line is returned as the record's bases.
type FastqReader struct {
	r *bufio.Reader
}

// NewFastqReader wraps r as a FASTQ record source.
func NewFastqReader(r io.Reader) *FastqReader {
	return &FastqReader{r: bufio.NewReaderSize(r, 64*1024)}
}

func (f *FastqReader) NextRecord() ([]byte, bool, error) {
	header, err := f.r.ReadBytes('\n')
	if len(trimEOL(header)) == 0 && err != nil {
		if err == io.EOF {
			return nil, false, nil
		}
		return nil, false, err
	}

	seqLine, err := f.r.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, false, err
	}
	seq := append([]byte(nil), trimEOL(seqLine)...)

	if _, err := f.r.ReadBytes('\n'); err != nil && err != io.EOF {
		return nil, false, err
	}
	if _, err := f.r.ReadBytes('\n'); err != nil && err != io.EOF {
		return nil, false, err
	}

	return seq, true, nil
}

func trimEOL(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

// RawReader is a RecordSource over a newline-delimited text stream
// where every line is itself one complete record's bases: used for
// pre-sampled or externally-produced keystreams where no FASTA/FASTQ
// framing is present.
type RawReader struct {
	r *bufio.Reader
}

// NewRawReader wraps r as a raw line-per-record source.
func NewRawReader(r io.Reader) *RawReader {
	return &RawReader{r: bufio.NewReaderSize(r, 64*1024)}
}

func (raw *RawReader) NextRecord() ([]byte, bool, error) {
	line, err := raw.r.ReadBytes('\n')
	line = trimEOL(line)
	if err != nil {
		if err == io.EOF {
			if len(line) == 0 {
				return nil, false, nil
			}
			return line, true, nil
		}
		return nil, false, err
	}
	return line, true, nil
}
