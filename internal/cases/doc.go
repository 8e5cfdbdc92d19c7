// Package cases loads the identifier list: one case identifier (receipt
// number) per line. Blank lines and lines starting with '#' are ignored and
// duplicates collapse, so the result is a set.
package cases
