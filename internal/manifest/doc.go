// Package manifest defines the durable record log produced by a scan.
//
// A manifest is a newline-delimited JSON file: one mutable header line
// followed by immutable item records appended in completion order. The
// format is deliberately line-oriented so that a crash mid-append can only
// ever damage the final line; readers skip anything they cannot parse.
package manifest
