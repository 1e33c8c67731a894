// 3 Aug 2020

// Package numseq counts the records in a fasta file without parsing it.
// The loader uses the count to allocate its sequence slice in one go.
// Counting ">" characters over a memory mapped file is the fastest way
// we found. If the map fails (pipes, odd filesystems) we fall back to
// buffered reads.
package numseq

import (
	"bytes"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// byMmap maps the file and counts comment characters in the raw bytes.
func byMmap(fname string) (int, error) {
	var fp *os.File
	var err error
	var mm mmap.MMap
	if fp, err = os.Open(fname); err != nil {
		return 0, err
	}
	defer fp.Close()
	if mm, err = mmap.Map(fp, mmap.RDONLY, 0); err != nil {
		return 0, err
	}
	defer mm.Unmap()
	return bytes.Count(mm, []byte(">")), nil
}

// byReading is the fallback. A fixed buffer is fine. We only care
// about one byte value, so split reads cannot confuse us.
func byReading(fname string) (int, error) {
	const bsize = 64 * 1024
	var buf [bsize]byte
	fp, err := os.Open(fname)
	if err != nil {
		return 0, err
	}
	defer fp.Close()
	count := 0
	for {
		n, err := fp.Read(buf[:])
		count += bytes.Count(buf[:n], []byte(">"))
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	return count, nil
}

// NumSeqs returns the number of fasta records in a file. A ">" buried
// in a comment line will fool it, so treat the result as a capacity
// hint, not a truth.
func NumSeqs(fname string) (int, error) {
	if n, err := byMmap(fname); err == nil {
		return n, nil
	}
	return byReading(fname)
}
