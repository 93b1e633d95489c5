// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package pfs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Archive byte layout constants.
const (
	// archiveMagic is the little-endian u32 spelling of "PFS ".
	archiveMagic = 0x20534650

	// archiveVersion is the only known PFS version.
	archiveVersion = 0x00020000

	// headerSize is the fixed header: index offset + magic + version.
	headerSize = 12

	// indexEntrySize is filename CRC + data offset + uncompressed size.
	indexEntrySize = 12

	// footerSize is the 5-byte marker plus a u32 timestamp.
	footerSize = 9
)

// Sentinel errors reported by Open, Extract, and Block.Decode. All
// errors from this package wrap one of these where a category
// applies; callers dispatch with errors.Is.
var (
	ErrBadMagic     = errors.New("pfs: bad archive magic")
	ErrBadVersion   = errors.New("pfs: unsupported archive version")
	ErrTruncated    = errors.New("pfs: truncated archive")
	ErrCorruptBlock = errors.New("pfs: corrupt block")
	ErrNotFound     = errors.New("pfs: file not found")
)

// Header is the fixed 12-byte archive preamble.
type Header struct {
	// IndexOffset is the absolute byte offset of the index from the
	// start of the archive.
	IndexOffset uint32

	// Magic is the file signature, always "PFS " in well-formed
	// archives.
	Magic uint32

	// Version is the format version, always 0x00020000.
	Version uint32
}

// appendTo appends the serialized header to dst.
func (h *Header) appendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, h.IndexOffset)
	dst = binary.LittleEndian.AppendUint32(dst, h.Magic)
	return binary.LittleEndian.AppendUint32(dst, h.Version)
}

// IndexEntry locates one stored file. Entries are keyed by filename
// CRC, not by name; the association with a filename is positional,
// through the directory (see Filenames).
type IndexEntry struct {
	// FilenameCRC is NameHash of the stored filename, or 0xFFFFFFFF
	// for the directory entry.
	FilenameCRC uint32

	// DataOffset is the absolute byte offset of the file's first
	// block.
	DataOffset uint32

	// UncompressedSize is the total decompressed size of the file.
	UncompressedSize uint32
}

// appendTo appends the serialized entry to dst.
func (e *IndexEntry) appendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, e.FilenameCRC)
	dst = binary.LittleEndian.AppendUint32(dst, e.DataOffset)
	return binary.LittleEndian.AppendUint32(dst, e.UncompressedSize)
}

// Footer is the optional 9-byte trailer after the index. Known
// archives carry the marker "STEVE"; some (global_chr1.s3d) have no
// footer at all. The marker is preserved verbatim, not validated.
type Footer struct {
	Marker    [5]byte
	Timestamp uint32
}

// FooterMarker is the marker observed in every archive that has a
// footer.
var FooterMarker = [5]byte{'S', 'T', 'E', 'V', 'E'}

// Archive is a parsed PFS archive. It holds the compressed blocks
// verbatim, so ToBytes reproduces the original input byte for byte.
// An Archive is immutable after Open and safe for concurrent readers.
type Archive struct {
	Header       Header
	Blocks       []Block
	IndexEntries []IndexEntry
	Footer       *Footer

	// blockOffsets[i] is the absolute byte offset of Blocks[i].
	// Blocks are contiguous from the end of the header, so this is
	// derived, kept only to make offset lookups a binary search.
	blockOffsets []int
}

// Open parses a complete archive from memory. The returned Archive
// references data's compressed payload bytes; callers must not
// mutate data afterwards.
func Open(data []byte) (*Archive, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is smaller than the archive header", ErrTruncated, len(data))
	}
	header := Header{
		IndexOffset: binary.LittleEndian.Uint32(data[0:]),
		Magic:       binary.LittleEndian.Uint32(data[4:]),
		Version:     binary.LittleEndian.Uint32(data[8:]),
	}
	if header.Magic != archiveMagic {
		return nil, fmt.Errorf("%w: 0x%08x", ErrBadMagic, header.Magic)
	}
	if header.Version != archiveVersion {
		return nil, fmt.Errorf("%w: 0x%08x", ErrBadVersion, header.Version)
	}
	if header.IndexOffset < headerSize || int(header.IndexOffset) > len(data) {
		return nil, fmt.Errorf("%w: index offset 0x%x outside archive of %d bytes",
			ErrTruncated, header.IndexOffset, len(data))
	}

	archive := &Archive{Header: header}

	// The block region is everything between the header and the
	// index. Blocks are contiguous; each is addressed by its absolute
	// offset in the file, starting at the end of the header.
	region := data[headerSize:header.IndexOffset]
	offset := headerSize
	for len(region) > 0 {
		if len(region) < blockHeaderSize {
			return nil, fmt.Errorf("%w: %d stray bytes at offset 0x%x in block region",
				ErrTruncated, len(region), offset)
		}
		compressedSize := binary.LittleEndian.Uint32(region[0:])
		uncompressedSize := binary.LittleEndian.Uint32(region[4:])
		if uint32(len(region)-blockHeaderSize) < compressedSize {
			return nil, fmt.Errorf("%w: block at offset 0x%x declares %d payload bytes, %d remain",
				ErrTruncated, offset, compressedSize, len(region)-blockHeaderSize)
		}
		archive.Blocks = append(archive.Blocks, Block{
			UncompressedSize: uncompressedSize,
			Compressed:       region[blockHeaderSize : blockHeaderSize+compressedSize],
		})
		archive.blockOffsets = append(archive.blockOffsets, offset)
		consumed := blockHeaderSize + int(compressedSize)
		region = region[consumed:]
		offset += consumed
	}

	// Index: u32 entry count followed by the entries.
	tail := data[header.IndexOffset:]
	if len(tail) < 4 {
		return nil, fmt.Errorf("%w: index at offset 0x%x: missing entry count",
			ErrTruncated, header.IndexOffset)
	}
	entryCount := binary.LittleEndian.Uint32(tail)
	tail = tail[4:]
	if uint64(len(tail)) < uint64(entryCount)*indexEntrySize {
		return nil, fmt.Errorf("%w: index declares %d entries, %d bytes remain",
			ErrTruncated, entryCount, len(tail))
	}
	archive.IndexEntries = make([]IndexEntry, entryCount)
	for i := range archive.IndexEntries {
		archive.IndexEntries[i] = IndexEntry{
			FilenameCRC:      binary.LittleEndian.Uint32(tail[0:]),
			DataOffset:       binary.LittleEndian.Uint32(tail[4:]),
			UncompressedSize: binary.LittleEndian.Uint32(tail[8:]),
		}
		tail = tail[indexEntrySize:]
	}

	// Footer presence is structural: any trailing bytes after the
	// index must be exactly one footer.
	if len(tail) > 0 {
		if len(tail) != footerSize {
			return nil, fmt.Errorf("%w: %d trailing bytes after index, footer is %d",
				ErrTruncated, len(tail), footerSize)
		}
		footer := &Footer{Timestamp: binary.LittleEndian.Uint32(tail[5:])}
		copy(footer.Marker[:], tail[:5])
		archive.Footer = footer
	}

	return archive, nil
}

// ToBytes serializes the archive: header, blocks in offset order,
// index entry count, index entries in stored order, then the footer
// if present. For an archive produced by Open this is the exact
// original input.
func (a *Archive) ToBytes() []byte {
	size := headerSize + 4 + len(a.IndexEntries)*indexEntrySize
	for i := range a.Blocks {
		size += a.Blocks[i].size()
	}
	if a.Footer != nil {
		size += footerSize
	}

	out := make([]byte, 0, size)
	out = a.Header.appendTo(out)
	for i := range a.Blocks {
		out = a.Blocks[i].appendTo(out)
	}
	out = binary.LittleEndian.AppendUint32(out, uint32(len(a.IndexEntries)))
	for i := range a.IndexEntries {
		out = a.IndexEntries[i].appendTo(out)
	}
	if a.Footer != nil {
		out = append(out, a.Footer.Marker[:]...)
		out = binary.LittleEndian.AppendUint32(out, a.Footer.Timestamp)
	}
	return out
}

// Filenames returns the archive's filenames in directory order. This
// is the same order as the index entries sorted by data offset, which
// is how names and entries are associated.
func (a *Archive) Filenames() ([]string, error) {
	dir, err := a.loadDirectory()
	if err != nil {
		return nil, err
	}
	return dir.filenames, nil
}

// Extract returns the decompressed contents of the named file. The
// name is matched case-insensitively against the directory. The
// matched entry's stored CRC is cross-checked against NameHash of the
// directory's declared filename.
func (a *Archive) Extract(name string) ([]byte, error) {
	dir, err := a.loadDirectory()
	if err != nil {
		return nil, err
	}
	position := -1
	for i, filename := range dir.filenames {
		if strings.EqualFold(filename, name) {
			position = i
			break
		}
	}
	if position == -1 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	entries := a.entriesByDataOffset()
	if position >= len(entries) {
		return nil, fmt.Errorf("pfs: directory lists %d filenames but index has %d entries",
			len(dir.filenames), len(entries))
	}
	entry := entries[position]
	if want := NameHash(dir.filenames[position]); entry.FilenameCRC != want {
		return nil, fmt.Errorf("pfs: index entry for %q has CRC 0x%08x, filename hashes to 0x%08x",
			dir.filenames[position], entry.FilenameCRC, want)
	}
	return a.decompressEntry(entry)
}

// File is one named file stored in an archive.
type File struct {
	Name string
	Data []byte
}

// Files decompresses every file in the archive, in directory order.
func (a *Archive) Files() ([]File, error) {
	dir, err := a.loadDirectory()
	if err != nil {
		return nil, err
	}
	entries := a.entriesByDataOffset()
	if len(dir.filenames) > len(entries) {
		return nil, fmt.Errorf("pfs: directory lists %d filenames but index has %d entries",
			len(dir.filenames), len(entries))
	}
	files := make([]File, len(dir.filenames))
	for i, name := range dir.filenames {
		data, err := a.decompressEntry(entries[i])
		if err != nil {
			return nil, fmt.Errorf("extracting %q: %w", name, err)
		}
		files[i] = File{Name: name, Data: data}
	}
	return files, nil
}

// loadDirectory locates, decompresses, and parses the directory entry.
func (a *Archive) loadDirectory() (*directory, error) {
	if len(a.IndexEntries) == 0 {
		return nil, fmt.Errorf("pfs: archive has no index entries")
	}
	// The directory is keyed by the reserved CRC. Fall back to the
	// entry with the highest data offset for archives that key it like
	// a regular file; >= breaks offset ties (zero-length entries share
	// an offset with their successor) in favor of the later entry,
	// which is where the directory is written.
	last := a.IndexEntries[0]
	found := false
	for _, entry := range a.IndexEntries {
		if entry.FilenameCRC == directoryCRC {
			last = entry
			found = true
			break
		}
	}
	if !found {
		for _, entry := range a.IndexEntries[1:] {
			if entry.DataOffset >= last.DataOffset {
				last = entry
			}
		}
	}
	data, err := a.decompressEntry(last)
	if err != nil {
		return nil, fmt.Errorf("decompressing directory: %w", err)
	}
	dir, err := parseDirectory(data)
	if err != nil {
		return nil, fmt.Errorf("parsing directory: %w", err)
	}
	return dir, nil
}

// DataEntries returns the index entries of the stored files in
// directory order: sorted by data offset with the directory entry
// excluded. DataEntries()[i] corresponds to Filenames()[i].
func (a *Archive) DataEntries() []IndexEntry {
	return a.entriesByDataOffset()
}

// entriesByDataOffset returns the index entries sorted by data
// offset, excluding the directory entry itself. This is the order the
// directory's filenames map onto.
func (a *Archive) entriesByDataOffset() []IndexEntry {
	entries := make([]IndexEntry, 0, len(a.IndexEntries))
	for _, entry := range a.IndexEntries {
		if entry.FilenameCRC == directoryCRC {
			continue
		}
		entries = append(entries, entry)
	}
	// Stable so zero-length entries, which share an offset with their
	// successor, keep their stored order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DataOffset < entries[j].DataOffset
	})
	return entries
}

// decompressEntry concatenates the decoded payloads of the entry's
// blocks: starting at the block at the entry's data offset,
// decompress until the accumulated size reaches the entry's declared
// uncompressed size.
func (a *Archive) decompressEntry(entry IndexEntry) ([]byte, error) {
	start := sort.SearchInts(a.blockOffsets, int(entry.DataOffset))
	data := make([]byte, 0, entry.UncompressedSize)
	for i := start; uint32(len(data)) < entry.UncompressedSize; i++ {
		if i >= len(a.Blocks) {
			return nil, fmt.Errorf("%w: entry at offset 0x%x: collected %d of %d bytes and ran out of blocks",
				ErrTruncated, entry.DataOffset, len(data), entry.UncompressedSize)
		}
		decoded, err := a.Blocks[i].Decode()
		if err != nil {
			return nil, fmt.Errorf("block at offset 0x%x: %w", a.blockOffsets[i], err)
		}
		data = append(data, decoded...)
	}
	if uint32(len(data)) != entry.UncompressedSize {
		return nil, fmt.Errorf("%w: entry at offset 0x%x: blocks decode to %d bytes, entry declares %d",
			ErrCorruptBlock, entry.DataOffset, len(data), entry.UncompressedSize)
	}
	return data, nil
}

// BuildOptions adjust Build output.
type BuildOptions struct {
	// Footer, if non-nil, is appended after the index. Build emits no
	// footer by default.
	Footer *Footer
}

// Build constructs a new archive from an ordered list of files. Each
// file's data is deflated in 0x2000-byte chunks; the directory is
// written as the final entry with the reserved CRC. The result
// satisfies Open(archive.ToBytes()) and decompresses to the same file
// contents, but the compressed bytes are not canonical.
func Build(files []File, opts BuildOptions) *Archive {
	archive := &Archive{
		Header: Header{Magic: archiveMagic, Version: archiveVersion},
		Footer: opts.Footer,
	}

	dir := &directory{filenames: make([]string, len(files))}
	for i, file := range files {
		dir.filenames[i] = file.Name
	}

	offset := headerSize
	add := func(crc uint32, data []byte) {
		entry := IndexEntry{
			FilenameCRC:      crc,
			DataOffset:       uint32(offset),
			UncompressedSize: uint32(len(data)),
		}
		for _, block := range encodeBlocks(data) {
			archive.Blocks = append(archive.Blocks, block)
			archive.blockOffsets = append(archive.blockOffsets, offset)
			offset += block.size()
		}
		archive.IndexEntries = append(archive.IndexEntries, entry)
	}

	for _, file := range files {
		add(NameHash(file.Name), file.Data)
	}
	add(directoryCRC, dir.toBytes())

	archive.Header.IndexOffset = uint32(offset)
	return archive
}
