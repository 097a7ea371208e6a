package cpu

import (
	"encoding/binary"
	"io"
)

// MemWords is the number of addressable 16-bit words.
const MemWords = 1 << 16

// Memory is the flat word-addressed store. Every 16-bit address is
// valid, so reads and writes cannot fail.
type Memory struct {
	data [MemWords]uint16
}

func NewMemory() *Memory {
	return &Memory{}
}

func (mem *Memory) Read(addr uint16) uint16 {
	return mem.data[addr]
}

func (mem *Memory) Write(addr uint16, value uint16) {
	mem.data[addr] = value
}

func (mem *Memory) Clear() {
	clear(mem.data[:])
}

// Load copies an image into memory starting at addr.
func (mem *Memory) Load(addr uint16, words []uint16) (err error) {
	if int(addr)+len(words) > MemWords {
		err = ErrImageSize
		return
	}
	copy(mem.data[int(addr):], words)
	return
}

// WriteImage serializes words to a byte stream, low byte first.
func WriteImage(w io.Writer, words []uint16) (err error) {
	buf := make([]byte, 2*len(words))
	for n, word := range words {
		binary.LittleEndian.PutUint16(buf[2*n:], word)
	}
	_, err = w.Write(buf)
	return
}

// ReadImage reads a little-endian word stream back into words.
func ReadImage(r io.Reader) (words []uint16, err error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return
	}
	if len(buf)%2 != 0 {
		err = ErrImageOdd
		return
	}
	if len(buf)/2 > MemWords {
		err = ErrImageSize
		return
	}

	words = make([]uint16, len(buf)/2)
	for n := range words {
		words[n] = binary.LittleEndian.Uint16(buf[2*n:])
	}
	return
}
