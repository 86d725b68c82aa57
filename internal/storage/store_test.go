package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/episweep/internal/models"
	"github.com/san-kum/episweep/internal/sweep"
)

func sampleTable() (sweep.Request, *sweep.Table) {
	req := sweep.Request{
		TStarts:    []int{10, 20},
		Coverages:  []float64{0.3, 0.8},
		Integrator: "rk4",
		Dt:         0.05,
		Days:       50,
	}
	table := &sweep.Table{
		TStarts:   req.TStarts,
		Coverages: req.Coverages,
		Rows: []sweep.Row{
			{TStart: 10, Coverage: 0.3, PeakInfectedChildren: 42.5, MedicineType: models.LabelExpensive},
			{TStart: 10, Coverage: 0.8, PeakInfectedChildren: 31.25, MedicineType: models.LabelCheap},
			{TStart: 20, Coverage: 0.3, PeakInfectedChildren: 55.0, MedicineType: models.LabelExpensive},
			{TStart: 20, Coverage: 0.8, MedicineType: models.LabelCheap, Err: errors.New("state outside physical bounds")},
		},
	}
	return req, table
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	req, table := sampleTable()
	runID, err := store.Save(req, table)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "sweep_"))

	meta, err := store.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "rk4", meta.Integrator)
	assert.Equal(t, []int{10, 20}, meta.TStarts)
	assert.Equal(t, 4, meta.Rows)
	assert.Equal(t, 1, meta.Failed)

	loaded, err := store.LoadTable(runID)
	require.NoError(t, err)
	require.Len(t, loaded.Rows, 4)

	for i, row := range loaded.Rows {
		orig := table.Rows[i]
		assert.Equal(t, orig.TStart, row.TStart)
		assert.InDelta(t, orig.Coverage, row.Coverage, 1e-4)
		assert.Equal(t, orig.MedicineType, row.MedicineType)
		if orig.Failed() {
			require.Error(t, row.Err)
			assert.Contains(t, row.Err.Error(), "outside physical bounds")
		} else {
			require.NoError(t, row.Err)
			assert.InDelta(t, orig.PeakInfectedChildren, row.PeakInfectedChildren, 1e-6)
		}
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	runs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	req, table := sampleTable()
	runID, err := store.Save(req, table)
	require.NoError(t, err)

	runs, err = store.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
}

func TestListMissingBaseDir(t *testing.T) {
	store := New(t.TempDir() + "/never_created")

	runs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	_, err := store.Load("sweep_0")
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	_, table := sampleTable()

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "t_start,cov_active,peak_infected_children,medicine_type,error", lines[0])
	assert.Equal(t, "10,0.3000,42.500000,"+models.LabelExpensive+",", lines[1])

	// Failed rows carry the message instead of a peak value.
	assert.True(t, strings.HasPrefix(lines[4], "20,0.8000,,"+models.LabelCheap+","))
	assert.Contains(t, lines[4], "outside physical bounds")
}

func TestExportJSON(t *testing.T) {
	_, table := sampleTable()

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, table))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 4)

	assert.Equal(t, float64(10), rows[0]["t_start"])
	assert.Equal(t, 42.5, rows[0]["peak_infected_children"])
	assert.Equal(t, models.LabelExpensive, rows[0]["medicine_type"])
	_, hasErr := rows[0]["error"]
	assert.False(t, hasErr)

	assert.Contains(t, rows[3]["error"], "outside physical bounds")
}
