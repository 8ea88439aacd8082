package sqrtdec

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const encodingVersion int32 = 1

// AsBytes serializes the structure: version tag, block size, length,
// then the logical values with pending deltas folded in. BigEndian
// throughout.
func (b *BlockDec) AsBytes() []byte {
	buffer := new(bytes.Buffer)

	binary.Write(buffer, binary.BigEndian, encodingVersion)
	binary.Write(buffer, binary.BigEndian, int32(b.blockSize))
	binary.Write(buffer, binary.BigEndian, int32(len(b.raw)))

	for i, v := range b.raw {
		binary.Write(buffer, binary.BigEndian, v+b.pending[i/b.blockSize])
	}

	return buffer.Bytes()
}

// FromBytes deserializes a structure produced by AsBytes. The result
// is logically equivalent to the original; pending deltas were folded
// in on encode.
func FromBytes(buf *bytes.Reader) (*BlockDec, error) {
	var version int32
	if err := binary.Read(buf, binary.BigEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: reading version: %v", ErrInvalidInput, err)
	}
	if version != encodingVersion {
		return nil, fmt.Errorf("%w: unsupported encoding version %d", ErrInvalidInput, version)
	}

	var blockSize, n int32
	if err := binary.Read(buf, binary.BigEndian, &blockSize); err != nil {
		return nil, fmt.Errorf("%w: reading block size: %v", ErrInvalidInput, err)
	}
	if err := binary.Read(buf, binary.BigEndian, &n); err != nil {
		return nil, fmt.Errorf("%w: reading length: %v", ErrInvalidInput, err)
	}
	if blockSize < 1 || n < 1 {
		return nil, fmt.Errorf("%w: block size %d, length %d", ErrInvalidInput, blockSize, n)
	}

	values := make([]float64, n)
	for i := range values {
		if err := binary.Read(buf, binary.BigEndian, &values[i]); err != nil {
			return nil, fmt.Errorf("%w: truncated payload at value %d: %v", ErrInvalidInput, i, err)
		}
	}

	return New(values, BlockSize(int(blockSize)))
}
