// Package encio provides the bounded data buffer the gse codec reads and
// writes through, as well as its error types.
package encio
