package sketchio

import (
	"bufio"
	"encoding/binary"
	"io"
)

// saveVisitor implements iblt.Visitor by writing every visited field
// big-endian to w. It records the first error encountered and turns
// every subsequent call into a no-op, the same short-circuit shape the
// teacher's header encoders use around bytes.Buffer writes.
type saveVisitor struct {
	w   *bufio.Writer
	err error
}

func (v *saveVisitor) Uint8(p *uint8) error {
	if v.err != nil {
		return v.err
	}
	v.err = v.w.WriteByte(*p)
	return v.err
}

func (v *saveVisitor) Uint32(p *uint32) error {
	if v.err != nil {
		return v.err
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], *p)
	_, v.err = v.w.Write(buf[:])
	return v.err
}

func (v *saveVisitor) Uint64(p *uint64) error {
	if v.err != nil {
		return v.err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], *p)
	_, v.err = v.w.Write(buf[:])
	return v.err
}

func (v *saveVisitor) Float32(p *float64) error {
	if v.err != nil {
		return v.err
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], float32Bits(*p))
	_, v.err = v.w.Write(buf[:])
	return v.err
}

func (v *saveVisitor) Bytes(p *[]byte, n int) error {
	if v.err != nil {
		return v.err
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(n))
	if _, v.err = v.w.Write(lenBuf[:]); v.err != nil {
		return v.err
	}
	_, v.err = v.w.Write((*p)[:n])
	return v.err
}

// loadVisitor implements iblt.Visitor by reading every visited field
// big-endian from r, storing the result through the pointer.
type loadVisitor struct {
	r   *bufio.Reader
	err error
}

func (v *loadVisitor) Uint8(p *uint8) error {
	if v.err != nil {
		return v.err
	}
	var b byte
	b, v.err = v.r.ReadByte()
	if v.err == nil {
		*p = b
	}
	return v.err
}

func (v *loadVisitor) Uint32(p *uint32) error {
	if v.err != nil {
		return v.err
	}
	var buf [4]byte
	if _, v.err = io.ReadFull(v.r, buf[:]); v.err == nil {
		*p = binary.BigEndian.Uint32(buf[:])
	}
	return v.err
}

func (v *loadVisitor) Uint64(p *uint64) error {
	if v.err != nil {
		return v.err
	}
	var buf [8]byte
	if _, v.err = io.ReadFull(v.r, buf[:]); v.err == nil {
		*p = binary.BigEndian.Uint64(buf[:])
	}
	return v.err
}

func (v *loadVisitor) Float32(p *float64) error {
	if v.err != nil {
		return v.err
	}
	var buf [4]byte
	if _, v.err = io.ReadFull(v.r, buf[:]); v.err == nil {
		*p = float32FromBits(binary.BigEndian.Uint32(buf[:]))
	}
	return v.err
}

func (v *loadVisitor) Bytes(p *[]byte, n int) error {
	if v.err != nil {
		return v.err
	}
	var lenBuf [4]byte
	if _, v.err = io.ReadFull(v.r, lenBuf[:]); v.err != nil {
		return v.err
	}
	wireLen := binary.BigEndian.Uint32(lenBuf[:])
	if int(wireLen) != n {
		v.err = io.ErrUnexpectedEOF
		return v.err
	}
	buf := make([]byte, n)
	if _, v.err = io.ReadFull(v.r, buf); v.err != nil {
		return v.err
	}
	*p = buf
	return nil
}
