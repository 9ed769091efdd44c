// Package encoding handles text encodings and file writes for contact files.
package encoding

import (
	"bytes"
	"fmt"
	"strings"

	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCharset is used when no encoding is configured.
const DefaultCharset = "utf-8"

// Lookup resolves a WHATWG/IANA encoding name such as "utf-8",
// "windows-1252" or "latin1".
func Lookup(name string) (xenc.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCharset
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}

	return enc, nil
}

// Canonical returns the canonical name of a supported encoding.
func Canonical(name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}

	return htmlindex.Name(enc)
}

// Decode converts data in the named encoding to NFC-normalized UTF-8.
func Decode(data []byte, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	out, _, err := transform.Bytes(transform.Chain(enc.NewDecoder(), norm.NFC), data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	// a UTF-8 byte order mark carries no content
	return bytes.TrimPrefix(out, []byte("\uFEFF")), nil
}

// Encode converts UTF-8 text into the named encoding. Characters the target
// cannot represent are an error.
func Encode(data []byte, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	out, _, err := transform.Bytes(enc.NewEncoder(), data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}

	return out, nil
}
