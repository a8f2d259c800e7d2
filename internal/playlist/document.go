// Package playlist splits M3U documents into records and classifies each
// record into a channel, movie or series episode.
package playlist

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
)

const (
	headerMarker = "#EXTM3U"
	entryMarker  = "#EXTINF"

	// Some providers emit very long #EXTINF lines.
	maxLineSize = 1024 * 1024
)

var (
	ErrEmptyPlaylist = errors.New("playlist is empty")
	ErrMissingHeader = errors.New("not a valid m3u or m3u8 file: missing #EXTM3U header")
)

// Record is one #EXTINF attribute line and the URL line that follows it.
type Record struct {
	Attributes string
	URL        string
}

// Document is a validated playlist split into records.
type Document struct {
	Records []Record
}

// Len returns the number of records in the document.
func (d *Document) Len() int {
	return len(d.Records)
}

// Parse validates the #EXTM3U header and pairs every #EXTINF line with the
// next non-directive line. Directive lines in between (#EXTVLCOPT, #EXTGRP,
// ...) are skipped. An #EXTINF without a following URL keeps an empty URL.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyPlaylist
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, ErrEmptyPlaylist
	}
	first := strings.TrimPrefix(strings.TrimSpace(sc.Text()), "\ufeff")
	if !strings.HasPrefix(first, headerMarker) {
		return nil, ErrMissingHeader
	}

	doc := &Document{}
	var pending *Record
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, entryMarker):
			if pending != nil {
				doc.Records = append(doc.Records, *pending)
			}
			pending = &Record{Attributes: line}
		case strings.HasPrefix(line, "#"):
			continue
		default:
			if pending == nil {
				continue
			}
			pending.URL = line
			doc.Records = append(doc.Records, *pending)
			pending = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if pending != nil {
		doc.Records = append(doc.Records, *pending)
	}
	return doc, nil
}
