package relsurv

import (
	"bytes"
	"io"
	"sort"

	"github.com/csimplestring/go-csv/detector"
)

// Delimiters that are tried first when more than one character occurs the
// same number of times on every sampled line.
var preferredDelimiters = []byte{',', '\t', ';', '|'}

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. If no candidate is found, a
// comma is assumed.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	candidates := d.DetectDelimiter(r, '"')

	if len(candidates) == 0 {
		return ','
	}

	// The detector ranges over a map, so its ordering is not stable.
	seen := make(map[byte]struct{}, len(candidates))
	for _, v := range candidates {
		if len(v) == 1 {
			seen[v[0]] = struct{}{}
		}
	}
	for _, v := range preferredDelimiters {
		if _, exists := seen[v]; exists {
			return rune(v)
		}
	}

	others := make([]byte, 0, len(seen))
	for v := range seen {
		others = append(others, v)
	}
	if len(others) == 0 {
		return ','
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })

	return rune(others[0])
}

// DetermineDelimiterBytes is DetermineDelimiter for data already in memory.
func DetermineDelimiterBytes(data []byte) rune {
	return DetermineDelimiter(bytes.NewReader(data))
}
