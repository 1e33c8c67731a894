// Reader for fasta format files.

package seq

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"sync"

	"github.com/andrew-torda/msaqc/pkg/white"
)

// An item is terminated by a newline if we are in a comment or a comment
// character ">" if we are in a sequence.
const (
	NL = '\n'
)

type item struct {
	data     []byte
	complete bool
}

type lexer struct {
	input    []byte
	ichan    chan *item
	aln      *Alignment
	rdr      io.Reader
	itempool sync.Pool
	cmmt     string // partial comment
	seq      []byte // partial sequence
	nrec     int    // records seen so far, for error messages
	term     byte
	err      error
}

const defaultReadSize = 512

var rdsize int = defaultReadSize

// setFastaRdSize is only used during testing, to push the lexer over
// buffer boundaries with small inputs.
func setFastaRdSize(i int) {
	if i <= 2 {
		panic("setFastaRdSize given buffer length of 2 or less")
	}
	rdsize = i
}

func newItem() interface{} { return new(item) }

// next reads from the input and sends an item to channel, ichan.
// An item is terminated by l.term, or the end of the buffer or
// end of input.
func (l *lexer) next() {
	l.itempool.New = newItem
	for {
		item := l.itempool.Get().(*item)
		if len(l.input) == 0 {
			l.input = make([]byte, rdsize)
			if n, err := l.rdr.Read(l.input); n != rdsize {
				if n == 0 {
					if err != nil && err != io.EOF {
						l.err = err // signal that a real error occurred.
					}
					item.data = []byte("")
					item.complete = true
					l.ichan <- item // we have to flush
					close(l.ichan)
					return
				} else { // Partial read. EOF, not an error
					l.input = l.input[:n+1]
					l.input[n] = l.term // Add terminator
				}
			}
		}

		if ndx := bytes.IndexByte(l.input, l.term); ndx == -1 {
			item.data = l.input // no terminator found, so just send
			l.input = nil       // back whatever we have in the buffer.
			item.complete = false
		} else { //                                We did find a terminator
			newlInput := l.input[ndx+1:] //        Advance pointer
			item.data = l.input[:ndx]    //
			item.complete = true         //
			l.input = newlInput          //        Set up for next loop
			if l.term == NL {
				l.term = cmmt_char
			} else {
				l.term = NL
			}
		}
		l.ichan <- item
	}
}

type stateFn func(*lexer) stateFn

// We are reading a sequence
func gseq(l *lexer) stateFn {
	item := <-l.ichan
	if item == nil || l.err != nil {
		return nil
	}
	defer l.itempool.Put(item)

	white.Remove(&item.data)
	l.seq = append(l.seq, item.data...)
	if item.complete {
		l.nrec++
		if len(l.seq) == 0 {
			l.err = errors.New(seqFmtErr(l.nrec, l.cmmt))
			return nil
		}
		sq := seq{cmmt: l.cmmt, seq: l.seq}
		l.aln.seqs = append(l.aln.seqs, sq)
		l.cmmt = ""
		l.seq = nil
		return gcmmt
	}
	return gseq
}

// We are reading a comment
func gcmmt(l *lexer) stateFn {
	item := <-l.ichan
	if item == nil || l.err != nil {
		return nil
	}
	defer l.itempool.Put(item)

	l.cmmt = l.cmmt + string(item.data)
	if item.complete {
		item.complete = false
		return gseq
	}
	return gcmmt
}

// seqFmtErr builds the message for a header with no residues under it.
func seqFmtErr(nrec int, cmmt string) string {
	return "record " + strconv.Itoa(nrec) + " (" + trimStr(cmmt, 40) +
		") has no sequence"
}

// ReadFasta reads fasta formatted files into an alignment.
// The first byte must be the ">" of the first header. We eat it here,
// since the lexer only sees ">" as a terminator, never as a starter.
func ReadFasta(rdr io.Reader, aln *Alignment, opts *Options) (err error) {
	var first [1]byte
	if _, err := io.ReadFull(rdr, first[:]); err != nil {
		return errors.New("no sequences found, empty input")
	}
	if first[0] != cmmt_char {
		return errors.New("first byte is not \">\", not fasta format")
	}

	if opts != nil && opts.ExpectSeq > 0 {
		aln.seqs = make([]seq, 0, opts.ExpectSeq)
	}

	l := lexer{rdr: rdr, ichan: make(chan *item, 2), aln: aln, term: NL}

	go l.next()
	for state := gcmmt; state != nil; {
		state = state(&l)
	}
	for range l.ichan { // If we stopped on an error, the lexer may still
	} //                   be sending. Drain it so it can finish and go away.
	if l.err == nil && len(aln.seqs) == 0 {
		l.err = errors.New("no sequences found")
	}
	return l.err
}
