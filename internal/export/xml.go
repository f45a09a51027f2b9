package export

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

const xmlVersion = 1

// ErrNotRepresentable is returned when a recording holds a string or a
// time that the round-trip format cannot carry unchanged.
var ErrNotRepresentable = errors.New("export: value not representable in xml")

// isXMLChar reports whether r is allowed in an XML 1.0 document.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	}
	return r >= 0x10000 && r <= utf8.MaxRune
}

func checkText(field, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %s %q is not valid UTF-8", ErrNotRepresentable, field, s)
	}
	for i, r := range s {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: %s %q has character %U at byte %d", ErrNotRepresentable, field, s, r, i)
		}
	}
	return nil
}

func checkTime(field string, t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: %s is %v", ErrNotRepresentable, field, t)
	}
	return nil
}

// CheckXML reports the first value in rec that EncodeXML would not write
// back exactly: text outside the XML character range or invalid UTF-8,
// and non-finite frame or event times.
func CheckXML(rec *recording.Recording) error {
	if rec == nil {
		return ErrSerializationTargetMissing
	}
	if err := checkText("recording name", rec.Name); err != nil {
		return err
	}
	for i := range rec.ActorIDs {
		if err := checkText(fmt.Sprintf("actor %d name", rec.ActorIDs[i]), rec.ActorNames[i]); err != nil {
			return err
		}
		if err := checkText(fmt.Sprintf("actor %d representation", rec.ActorIDs[i]), rec.ActorRepresentations[i]); err != nil {
			return err
		}
	}
	for i, f := range rec.Frames {
		if err := checkTime(fmt.Sprintf("frame %d timestamp", i), f.Timestamp); err != nil {
			return err
		}
	}
	for i, e := range rec.Events {
		if err := checkTime(fmt.Sprintf("event %d time", i), e.Time); err != nil {
			return err
		}
		if err := checkText(fmt.Sprintf("event %d name", i), e.Name); err != nil {
			return err
		}
		if err := checkText(fmt.Sprintf("event %d contents", i), e.Contents); err != nil {
			return err
		}
	}
	return nil
}

// Document layout of the round-trip format. Floats are written in their
// shortest exact form so a decode yields bit-identical values.
type xmlRecording struct {
	XMLName xml.Name   `xml:"Recording"`
	Version int        `xml:"version,attr"`
	Name    string     `xml:"name,attr"`
	FPS     float64    `xml:"fps,attr"`
	Actors  []xmlActor `xml:"Actors>Actor"`
	Frames  []xmlFrame `xml:"Frames>Frame"`
	Events  []xmlEvent `xml:"Events>Event"`
}

type xmlActor struct {
	ID             int    `xml:"id,attr"`
	Name           string `xml:"name,attr"`
	Representation string `xml:"representation,attr"`
}

type xmlFrame struct {
	Timestamp float64     `xml:"timestamp,attr"`
	Samples   []xmlSample `xml:"Sample"`
}

type xmlSample struct {
	Actor    int    `xml:"actor,attr"`
	Position xmlVec `xml:"Position"`
	Rotation xmlVec `xml:"Rotation"`
}

type xmlVec struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

type xmlEvent struct {
	Time     float64 `xml:"time,attr"`
	Name     string  `xml:"name,attr"`
	Contents string  `xml:",chardata"`
}

func toXMLVec(v mgl64.Vec3) xmlVec {
	return xmlVec{X: v[0], Y: v[1], Z: v[2]}
}

func (v xmlVec) vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// EncodeXML writes rec in the round-trip format. A recording that fails
// CheckXML is rejected before anything is written.
func EncodeXML(w io.Writer, rec *recording.Recording) error {
	if err := CheckXML(rec); err != nil {
		return err
	}

	doc := xmlRecording{
		Version: xmlVersion,
		Name:    rec.Name,
		FPS:     rec.FPS,
		Actors:  make([]xmlActor, len(rec.ActorIDs)),
		Frames:  make([]xmlFrame, len(rec.Frames)),
		Events:  make([]xmlEvent, len(rec.Events)),
	}
	for i, id := range rec.ActorIDs {
		doc.Actors[i] = xmlActor{ID: id, Name: rec.ActorNames[i], Representation: rec.ActorRepresentations[i]}
	}
	for i, f := range rec.Frames {
		xf := xmlFrame{Timestamp: f.Timestamp, Samples: make([]xmlSample, len(f.ActorIDs))}
		for j, id := range f.ActorIDs {
			xf.Samples[j] = xmlSample{Actor: id, Position: toXMLVec(f.Positions[j]), Rotation: toXMLVec(f.Rotations[j])}
		}
		doc.Frames[i] = xf
	}
	for i, e := range rec.Events {
		doc.Events[i] = xmlEvent{Time: e.Time, Name: e.Name, Contents: e.Contents}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding recording %q: %w", rec.Name, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return nil
}

// DecodeXML reads a recording written by EncodeXML.
func DecodeXML(r io.Reader) (*recording.Recording, error) {
	var doc xmlRecording
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding recording: %w", err)
	}
	if doc.Version > xmlVersion {
		return nil, fmt.Errorf("decoding recording: unsupported version %d", doc.Version)
	}

	rec := &recording.Recording{
		Name:                 doc.Name,
		FPS:                  doc.FPS,
		ActorIDs:             make([]int, len(doc.Actors)),
		ActorNames:           make([]string, len(doc.Actors)),
		ActorRepresentations: make([]string, len(doc.Actors)),
		Frames:               make([]recording.Frame, len(doc.Frames)),
		Events:               make([]recording.Event, len(doc.Events)),
	}
	for i, a := range doc.Actors {
		rec.ActorIDs[i] = a.ID
		rec.ActorNames[i] = a.Name
		rec.ActorRepresentations[i] = a.Representation
	}
	for i, xf := range doc.Frames {
		f := recording.Frame{
			Timestamp: xf.Timestamp,
			ActorIDs:  make([]int, len(xf.Samples)),
			Positions: make([]mgl64.Vec3, len(xf.Samples)),
			Rotations: make([]mgl64.Vec3, len(xf.Samples)),
		}
		for j, s := range xf.Samples {
			f.ActorIDs[j] = s.Actor
			f.Positions[j] = s.Position.vec()
			f.Rotations[j] = s.Rotation.vec()
		}
		rec.Frames[i] = f
	}
	for i, e := range doc.Events {
		rec.Events[i] = recording.Event{Time: e.Time, Name: e.Name, Contents: e.Contents}
	}
	if err := CheckXML(rec); err != nil {
		return nil, fmt.Errorf("decoding recording: %w", err)
	}
	return rec, nil
}
