// Package wordlist loads the positive, negative and stop word lists used
// by the analyzer. Lists are plain-text resources with one lowercase word
// per line; they are loaded once, treated as read-only afterwards, and any
// load failure yields an empty list rather than an error — the analyzer
// tolerates empty lists by producing neutral metrics.
package wordlist

import (
	"bufio"
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// List is an immutable set of lowercase words. Membership is the only
// operation the analyzer needs.
type List map[string]struct{}

// Contains reports whether word is in the list.
func (l List) Contains(word string) bool {
	_, ok := l[word]
	return ok
}

// Len returns the number of words in the list.
func (l List) Len() int {
	return len(l)
}

// parse builds a List from raw file contents: one word per line, trimmed
// and lowercased, blank lines skipped. Input is decoded as UTF-8 with a
// Latin-1 fallback for legacy resources.
func parse(data []byte) List {
	list := make(List)
	sc := bufio.NewScanner(bytes.NewReader(decode(data)))
	for sc.Scan() {
		word := strings.ToLower(strings.TrimSpace(sc.Text()))
		if word == "" {
			continue
		}
		list[word] = struct{}{}
	}
	return list
}

// decode returns the data as UTF-8, reinterpreting it as ISO 8859-1 when
// it is not valid UTF-8. Latin-1 decoding cannot fail, so this always
// produces usable bytes.
func decode(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil
	}
	return decoded
}
