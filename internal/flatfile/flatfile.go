// Package flatfile reads and writes contact files.
//
// The native format is plain text with eight lines per contact, in order:
// first name, last name, street, city, state, zip, email, phone. There is no
// header and no escaping. YAML and JSON documents holding a "contacts" list
// are accepted as interchange formats.
package flatfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/inovacc/addressbook/internal/encoding"
	"github.com/inovacc/addressbook/internal/model"
)

// LinesPerRecord is the number of lines holding one contact.
const LinesPerRecord = 8

// Format selects the file layout.
type Format string

const (
	FormatLines Format = "lines"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

// Options controls how a file is read or written. Zero values select the
// format from the file extension and UTF-8.
type Options struct {
	Format   Format
	Encoding string
}

// ParseFormat validates a user supplied format name. The empty string means
// detect from the path.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatLines, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "txt", "text":
		return FormatLines, nil
	default:
		return "", model.NewValidationError("options", "format", fmt.Sprintf("unknown format %q", s))
	}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatLines
	}
}

func (o Options) resolve(path string) (Options, error) {
	f, err := ParseFormat(string(o.Format))
	if err != nil {
		return o, err
	}

	if f == "" {
		f = DetectFormat(path)
	}

	o.Format = f

	if _, err := encoding.Lookup(o.Encoding); err != nil {
		return o, model.NewValidationError("options", "encoding", err.Error())
	}

	return o, nil
}

// ReadFile parses the contacts stored at path.
func ReadFile(path string, opts Options) ([]*model.Entry, error) {
	opts, err := opts.resolve(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		op := "read"
		if encoding.IsNotExist(err) {
			op = "find"
		}

		return nil, &model.IOError{Op: op, Path: path, Err: err}
	}

	return decode(raw, opts)
}

// WriteFile stores entries at path, replacing it atomically.
func WriteFile(path string, entries []*model.Entry, opts Options) error {
	opts, err := opts.resolve(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Write(&buf, entries, opts); err != nil {
		return err
	}

	if err := encoding.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return &model.IOError{Op: "write", Path: path, Err: err}
	}

	return nil
}

// Read parses contacts from r. opts.Format must be set.
func Read(r io.Reader, opts Options) ([]*model.Entry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &model.IOError{Op: "read", Path: "-", Err: err}
	}

	return decode(raw, opts)
}

func decode(raw []byte, opts Options) ([]*model.Entry, error) {
	text, err := encoding.Decode(raw, opts.Encoding)
	if err != nil {
		return nil, model.NewValidationError("file", "encoding", err.Error())
	}

	var entries []*model.Entry

	switch opts.Format {
	case FormatYAML:
		entries, err = decodeYAML(text)
	case FormatJSON:
		entries, err = decodeJSON(text)
	default:
		entries, err = decodeLines(text)
	}

	if err != nil {
		return nil, err
	}

	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	return entries, nil
}

// Write serializes entries to w. opts.Format must be set.
func Write(w io.Writer, entries []*model.Entry, opts Options) error {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	var (
		buf bytes.Buffer
		err error
	)

	switch opts.Format {
	case FormatYAML:
		err = encodeYAML(&buf, entries)
	case FormatJSON:
		err = encodeJSON(&buf, entries)
	default:
		err = encodeLines(&buf, entries)
	}

	if err != nil {
		return err
	}

	out, err := encoding.Encode(buf.Bytes(), opts.Encoding)
	if err != nil {
		return model.NewValidationError("file", "encoding", err.Error())
	}

	if _, err := w.Write(out); err != nil {
		return &model.IOError{Op: "write", Path: "-", Err: err}
	}

	return nil
}

func decodeLines(text []byte) ([]*model.Entry, error) {
	var lines []string

	sc := bufio.NewScanner(bytes.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}

	if err := sc.Err(); err != nil {
		return nil, &model.IOError{Op: "scan", Path: "-", Err: err}
	}

	// blank lines past the last complete record are padding; blank lines
	// inside it are empty fields
	for len(lines) > 0 && lines[len(lines)-1] == "" &&
		(len(lines)%LinesPerRecord != 0 || blankRecord(lines[len(lines)-LinesPerRecord:])) {
		lines = lines[:len(lines)-1]
	}

	if len(lines)%LinesPerRecord != 0 {
		n := len(lines)/LinesPerRecord + 1
		return nil, model.NewValidationError("file", fmt.Sprintf("record %d", n),
			fmt.Sprintf("incomplete record: %d of %d lines", len(lines)%LinesPerRecord, LinesPerRecord))
	}

	entries := make([]*model.Entry, 0, len(lines)/LinesPerRecord)

	for i := 0; i < len(lines); i += LinesPerRecord {
		f := lines[i : i+LinesPerRecord]
		entries = append(entries, &model.Entry{
			FirstName: f[0],
			LastName:  f[1],
			Address: model.Address{
				Street: f[2],
				City:   f[3],
				State:  f[4],
				Zip:    f[5],
			},
			Email: f[6],
			Phone: f[7],
		})
	}

	return entries, nil
}

func blankRecord(lines []string) bool {
	for _, l := range lines {
		if l != "" {
			return false
		}
	}

	return true
}

func encodeLines(w *bytes.Buffer, entries []*model.Entry) error {
	for _, e := range entries {
		for _, v := range []string{
			e.FirstName, e.LastName,
			e.Address.Street, e.Address.City, e.Address.State, e.Address.Zip,
			e.Email, e.Phone,
		} {
			w.WriteString(v)
			w.WriteByte('\n')
		}
	}

	return nil
}
