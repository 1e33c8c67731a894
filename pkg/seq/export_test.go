// Lets us fiddle the lexer's buffer size from the test package, so
// small test sequences still cross buffer boundaries.

package seq

var SetFastaRdSize = setFastaRdSize
