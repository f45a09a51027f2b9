package recording

import (
	"fmt"
	"strings"
)

// Format names a way a recording can be exported.
type Format string

const (
	// FormatXML is the round-trip format. It is the only format playback
	// can load.
	FormatXML Format = "xml"
	// FormatCSV is a spreadsheet-friendly table. It cannot be played back.
	FormatCSV Format = "csv"
)

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Playable reports whether recordings in this format can be re-ingested.
func (f Format) Playable() bool {
	return f == FormatXML
}

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXML:
		return FormatXML, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown format %q, must be one of: xml, csv", s)
	}
}

// ParseFormats parses a list of format names.
func ParseFormats(names []string) ([]Format, error) {
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
