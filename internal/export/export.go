// Package export persists recordings. The XML format round-trips exactly
// and is what playback loads; the CSV format is a one-way table for
// inspection.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Replica/internal/archive"
	"github.com/SmitUplenchwar2687/Replica/internal/logging"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

// ErrSerializationTargetMissing is returned when an exporter is handed no
// recording. It is a soft outcome: the exporter logs a warning and writes
// nothing, and callers are expected to carry on.
var ErrSerializationTargetMissing = errors.New("export: no recording to serialize")

// Exporter persists a recording in one format.
type Exporter interface {
	Format() recording.Format
	Export(ctx context.Context, rec *recording.Recording) error
}

// FileName returns the archive entry name for a recording in format f.
func FileName(name string, f recording.Format) string {
	return name + f.Ext()
}

type encodeFunc func(io.Writer, *recording.Recording) error

type fileExporter struct {
	format  recording.Format
	encode  encodeFunc
	check   func(*recording.Recording) error // optional, runs before the entry is created
	archive archive.Archive
	log     *logrus.Logger
}

func (e *fileExporter) Format() recording.Format {
	return e.format
}

func (e *fileExporter) Export(ctx context.Context, rec *recording.Recording) (err error) {
	if rec == nil {
		e.log.WithField("format", e.format).Warn("trying to save a nil recording, skipping")
		return ErrSerializationTargetMissing
	}

	name := FileName(rec.Name, e.format)
	if e.check != nil {
		if err := e.check(rec); err != nil {
			return fmt.Errorf("saving %s: %w", name, err)
		}
	}
	w, err := e.archive.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("saving %s: %w", name, cerr)
		}
	}()

	if err := e.encode(w, rec); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}

	e.log.WithFields(logrus.Fields{
		"recording": rec.Name,
		"format":    e.format,
		"entry":     name,
		"frames":    len(rec.Frames),
		"events":    len(rec.Events),
	}).Info("recording saved")
	return nil
}

// NewXMLExporter returns the round-trip exporter writing to a.
func NewXMLExporter(a archive.Archive, log *logrus.Logger) Exporter {
	return &fileExporter{
		format:  recording.FormatXML,
		encode:  EncodeXML,
		check:   CheckXML,
		archive: a,
		log:     logging.OrDiscard(log),
	}
}

// NewCSVExporter returns the tabular exporter writing to a.
func NewCSVExporter(a archive.Archive, log *logrus.Logger) Exporter {
	return &fileExporter{format: recording.FormatCSV, encode: EncodeCSV, archive: a, log: logging.OrDiscard(log)}
}

// All returns one exporter per supported format, all writing to a.
func All(a archive.Archive, log *logrus.Logger) []Exporter {
	return []Exporter{NewXMLExporter(a, log), NewCSVExporter(a, log)}
}

// Load reads a round-trip recording from a. name may be the recording name
// or its entry name with the .xml extension.
func Load(ctx context.Context, a archive.Archive, name string) (*recording.Recording, error) {
	if strings.HasSuffix(name, recording.FormatCSV.Ext()) {
		return nil, fmt.Errorf("loading %s: csv recordings cannot be played back", name)
	}
	if !strings.HasSuffix(name, recording.FormatXML.Ext()) {
		name = FileName(name, recording.FormatXML)
	}

	r, err := a.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	defer r.Close()

	rec, err := DecodeXML(r)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	return rec, nil
}
