// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package pfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// blockHeaderSize is the fixed per-block header: u32 compressed size
// + u32 uncompressed size.
const blockHeaderSize = 8

// compressionChunkSize is the amount of uncompressed data per block
// when building an archive. Every observed archive uses 0x2000-byte
// chunks with a shorter final chunk.
const compressionChunkSize = 0x2000

// Block is one independently-deflated chunk of an archive's payload
// region. Blocks are stored contiguously after the header and are
// addressed by their absolute byte offset in the archive.
type Block struct {
	// UncompressedSize is the byte length Compressed must inflate to.
	UncompressedSize uint32

	// Compressed is the raw zlib stream.
	Compressed []byte
}

// size returns the on-disk size of the block including its header.
func (b *Block) size() int {
	return blockHeaderSize + len(b.Compressed)
}

// appendTo appends the serialized block to dst.
func (b *Block) appendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(b.Compressed)))
	dst = binary.LittleEndian.AppendUint32(dst, b.UncompressedSize)
	return append(dst, b.Compressed...)
}

// Decode inflates the block's payload. The result must be exactly
// UncompressedSize bytes; any mismatch or malformed stream reports
// ErrCorruptBlock.
func (b *Block) Decode() ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(b.Compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: opening zlib stream: %v", ErrCorruptBlock, err)
	}
	defer reader.Close()

	data := make([]byte, 0, b.UncompressedSize)
	buffer := bytes.NewBuffer(data)
	if _, err := io.Copy(buffer, reader); err != nil {
		return nil, fmt.Errorf("%w: inflating: %v", ErrCorruptBlock, err)
	}
	if buffer.Len() != int(b.UncompressedSize) {
		return nil, fmt.Errorf("%w: inflated to %d bytes, block declares %d",
			ErrCorruptBlock, buffer.Len(), b.UncompressedSize)
	}
	return buffer.Bytes(), nil
}

// encodeBlock deflates one chunk of data into a Block. The inverse
// holds for content, not bytes: Decode returns the original data, but
// the compressed stream is not guaranteed identical to what other
// deflate implementations produce.
func encodeBlock(data []byte) Block {
	var buffer bytes.Buffer
	writer := zlib.NewWriter(&buffer)
	// Writes to a bytes.Buffer cannot fail.
	writer.Write(data)
	writer.Close()
	return Block{
		UncompressedSize: uint32(len(data)),
		Compressed:       buffer.Bytes(),
	}
}

// encodeBlocks splits data into compression chunks and deflates each.
func encodeBlocks(data []byte) []Block {
	blocks := make([]Block, 0, (len(data)+compressionChunkSize-1)/compressionChunkSize)
	for len(data) > 0 {
		chunk := data
		if len(chunk) > compressionChunkSize {
			chunk = chunk[:compressionChunkSize]
		}
		blocks = append(blocks, encodeBlock(chunk))
		data = data[len(chunk):]
	}
	return blocks
}
