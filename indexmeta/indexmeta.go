// Package indexmeta holds a small length-prefixed key/value block,
// adapted from the teacher's index-header metadata extension for use
// as a sketch file's optional trailing provenance block (build tool,
// source file name, build timestamp, source digest). It carries no bearing
// on reconciliation semantics.
package indexmeta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	MaxNumKVs    = 255
	MaxKeySize   = 255
	MaxValueSize = 255
)

type KV struct {
	Key   []byte
	Value []byte
}

func NewKV(key, value []byte) KV {
	return KV{Key: key, Value: value}
}

type Meta struct {
	KeyVals []KV
}

// Bytes returns the serialized metadata, panicking on a violated size limit.
func (m *Meta) Bytes() []byte {
	b, err := m.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return b
}

func (m Meta) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if len(m.KeyVals) > MaxNumKVs {
		return nil, fmt.Errorf("number of key-value pairs %d exceeds max %d", len(m.KeyVals), MaxNumKVs)
	}
	buf.WriteByte(byte(len(m.KeyVals)))
	for i, kv := range m.KeyVals {
		if len(kv.Key) > MaxKeySize {
			return nil, fmt.Errorf("key %d size %d exceeds max %d", i, len(kv.Key), MaxKeySize)
		}
		buf.WriteByte(byte(len(kv.Key)))
		buf.Write(kv.Key)

		if len(kv.Value) > MaxValueSize {
			return nil, fmt.Errorf("value %d size %d exceeds max %d", i, len(kv.Value), MaxValueSize)
		}
		buf.WriteByte(byte(len(kv.Value)))
		buf.Write(kv.Value)
	}
	return buf.Bytes(), nil
}

// Decoder is the minimal reader shape UnmarshalWithDecoder needs.
type Decoder interface {
	io.ByteReader
	io.Reader
}

func (m *Meta) UnmarshalWithDecoder(r Decoder) error {
	numKVs, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read number of key-value pairs: %w", err)
	}
	for i := 0; i < int(numKVs); i++ {
		var kv KV
		keyLen, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("failed to read key length %d: %w", i, err)
		}
		kv.Key = make([]byte, keyLen)
		if _, err := io.ReadFull(r, kv.Key); err != nil {
			return fmt.Errorf("failed to read key %d: %w", i, err)
		}

		valueLen, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("failed to read value length %d: %w", i, err)
		}
		kv.Value = make([]byte, valueLen)
		if _, err := io.ReadFull(r, kv.Value); err != nil {
			return fmt.Errorf("failed to read value %d: %w", i, err)
		}
		m.KeyVals = append(m.KeyVals, kv)
	}
	return nil
}

func (m *Meta) UnmarshalBinary(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return m.UnmarshalWithDecoder(bytes.NewReader(b))
}

// Add appends a key-value pair.
func (m *Meta) Add(key, value []byte) error {
	if len(m.KeyVals) >= MaxNumKVs {
		return fmt.Errorf("number of key-value pairs %d exceeds max %d", len(m.KeyVals), MaxNumKVs)
	}
	if len(key) > MaxKeySize {
		return fmt.Errorf("key size %d exceeds max %d", len(key), MaxKeySize)
	}
	if len(value) > MaxValueSize {
		return fmt.Errorf("value size %d exceeds max %d", len(value), MaxValueSize)
	}
	m.KeyVals = append(m.KeyVals, KV{Key: cloneBytes(key), Value: cloneBytes(value)})
	return nil
}

func cloneBytes(b []byte) []byte { return append([]byte(nil), b...) }

func (m *Meta) AddString(key []byte, value string) error {
	return m.Add(key, []byte(value))
}

func (m Meta) GetString(key []byte) (string, bool) {
	value, ok := m.Get(key)
	if !ok {
		return "", false
	}
	return string(value), true
}

func (m *Meta) AddUint64(key []byte, value uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, value)
	return m.Add(key, buf)
}

func (m Meta) GetUint64(key []byte) (uint64, bool) {
	value, ok := m.Get(key)
	if !ok || len(value) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(value), true
}

// Get returns the first value for the given key.
func (m Meta) Get(key []byte) ([]byte, bool) {
	for _, kv := range m.KeyVals {
		if bytes.Equal(kv.Key, key) {
			return kv.Value, true
		}
	}
	return nil, false
}

// GetAll returns every value stored under key.
func (m Meta) GetAll(key []byte) [][]byte {
	var values [][]byte
	for _, kv := range m.KeyVals {
		if bytes.Equal(kv.Key, key) {
			values = append(values, kv.Value)
		}
	}
	return values
}

// Count returns how many values are stored under key.
func (m Meta) Count(key []byte) int {
	var count int
	for _, kv := range m.KeyVals {
		if bytes.Equal(kv.Key, key) {
			count++
		}
	}
	return count
}

// Remove deletes every key-value pair under key.
func (m *Meta) Remove(key []byte) {
	var kept []KV
	for _, kv := range m.KeyVals {
		if !bytes.Equal(kv.Key, key) {
			kept = append(kept, kv)
		}
	}
	m.KeyVals = kept
}
