package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

// cellsPerActor is x/y/z position, x/y/z rotation and a spacer.
const cellsPerActor = 7

var rosterHeader = []string{"Actor Id", "Name", "Resources Path"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EncodeCSV writes rec as two tables: the actor roster, a blank line, then
// one row per frame with seven cells per actor. The output is for people
// and spreadsheets. It cannot be decoded back into a recording.
func EncodeCSV(w io.Writer, rec *recording.Recording) error {
	if rec == nil {
		return ErrSerializationTargetMissing
	}

	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)

	if err := cw.Write(rosterHeader); err != nil {
		return err
	}
	for i, id := range rec.ActorIDs {
		if err := cw.Write([]string{strconv.Itoa(id), rec.ActorNames[i], rec.ActorRepresentations[i]}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}

	width := 2 + cellsPerActor*len(rec.ActorIDs)
	header := make([]string, 2, width)
	header[0] = "Time"
	for _, id := range rec.ActorIDs {
		header = append(header,
			fmt.Sprintf("%d x pos", id), fmt.Sprintf("%d y pos", id), fmt.Sprintf("%d z pos", id),
			fmt.Sprintf("%d x rot", id), fmt.Sprintf("%d y rot", id), fmt.Sprintf("%d z rot", id),
			"")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, width)
	for _, f := range rec.Frames {
		row = row[:2]
		row[0] = formatFloat(f.Timestamp)
		row[1] = ""
		for _, id := range rec.ActorIDs {
			pos, _ := f.PositionOf(id)
			rot, _ := f.RotationOf(id)
			row = append(row,
				formatFloat(pos[0]), formatFloat(pos[1]), formatFloat(pos[2]),
				formatFloat(rot[0]), formatFloat(rot[1]), formatFloat(rot[2]),
				"")
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}
