// Remove white space from byte slices, in place.
// The fasta reader hands us lumps of sequence text which can have
// newlines and blanks anywhere. We squash them out without allocating.

package white

var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

// Remove acts on a byte slice via its pointer and removes all the
// white space. The slice is shortened, the capacity is untouched.
func Remove(s *[]byte) {
	t := *s
	n := 0
	for _, c := range t {
		if !asciiSpace[c] {
			t[n] = c
			n++
		}
	}
	*s = t[:n]
}
