package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/episweep/internal/sweep"
)

// ExportCSV writes the table with the header
// t_start,cov_active,peak_infected_children,medicine_type,error.
func ExportCSV(w io.Writer, table *sweep.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"t_start", "cov_active", "peak_infected_children", "medicine_type", "error"}); err != nil {
		return err
	}

	for _, row := range table.Rows {
		record := []string{
			strconv.Itoa(row.TStart),
			strconv.FormatFloat(row.Coverage, 'f', 4, 64),
			"",
			row.MedicineType,
			"",
		}
		if row.Failed() {
			record[4] = row.Err.Error()
		} else {
			record[2] = strconv.FormatFloat(row.PeakInfectedChildren, 'f', 6, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type rowJSON struct {
	TStart               int     `json:"t_start"`
	Coverage             float64 `json:"cov_active"`
	PeakInfectedChildren float64 `json:"peak_infected_children"`
	MedicineType         string  `json:"medicine_type"`
	Error                string  `json:"error,omitempty"`
}

// ExportJSON writes the table as a JSON array of row records.
func ExportJSON(w io.Writer, table *sweep.Table) error {
	rows := make([]rowJSON, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = rowJSON{
			TStart:               row.TStart,
			Coverage:             row.Coverage,
			PeakInfectedChildren: row.PeakInfectedChildren,
			MedicineType:         row.MedicineType,
		}
		if row.Failed() {
			rows[i].Error = row.Err.Error()
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
