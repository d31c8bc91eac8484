// Package file loads a set of files on disk into a single Table. Files are read in their
// entirety, in lexical order, by a format loader such as dsv or jsonl.
package file
