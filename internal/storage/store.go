package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/episweep/internal/sweep"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Integrator string    `json:"integrator"`
	Dt         float64   `json:"dt"`
	Days       float64   `json:"days"`
	TStarts    []int     `json:"t_starts"`
	Coverages  []float64 `json:"coverages"`
	Rows       int       `json:"rows"`
	Failed     int       `json:"failed"`
}

// Save writes one sweep run as metadata.json plus table.csv under a
// fresh run directory and returns the run id.
func (s *Store) Save(req sweep.Request, table *sweep.Table) (string, error) {
	runID := fmt.Sprintf("sweep_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	summary := table.Summary()
	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now(),
		Integrator: req.Integrator,
		Dt:         req.Dt,
		Days:       req.Days,
		TStarts:    table.TStarts,
		Coverages:  table.Coverages,
		Rows:       summary.Total,
		Failed:     summary.Failed,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "table.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := ExportCSV(csvFile, table); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTable reconstructs the result table of a stored run. Failed rows
// come back with their recorded error message.
func (s *Store) LoadTable(runID string) (*sweep.Table, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "table.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("run %s: empty table", runID)
	}

	table := &sweep.Table{
		TStarts:   meta.TStarts,
		Coverages: meta.Coverages,
		Rows:      make([]sweep.Row, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		if len(record) < 5 {
			continue
		}
		tStart, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		coverage, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		row := sweep.Row{
			TStart:       tStart,
			Coverage:     coverage,
			MedicineType: record[3],
		}
		if record[4] != "" {
			row.Err = errors.New(record[4])
		} else {
			row.PeakInfectedChildren, _ = strconv.ParseFloat(record[2], 64)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
