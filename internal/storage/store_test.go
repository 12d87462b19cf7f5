package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

func sampleResult(t *testing.T) *sim.Result {
	t.Helper()
	sys, err := sim.New([]sim.Particle{
		{Position: dynamo.Vec{-1, 0}, Velocity: dynamo.Vec{0, -0.3}, Mass: 1e10},
		{Position: dynamo.Vec{1, 0}, Velocity: dynamo.Vec{0, 0.3}, Mass: 1e10},
	})
	require.NoError(t, err)

	res, err := sim.NewSimulator().Run(context.Background(), sys, sim.Config{Dt: 0.01, Steps: 20, RecordEvery: 5})
	require.NoError(t, err)
	res.Metrics["energy_drift"] = 1e-9
	return res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	res := sampleResult(t)
	runID, err := st.Save(RunMetadata{Scenario: "binary", Integrator: "rk4", Dt: 0.01, Steps: 20, RecordEvery: 5, Threshold: 250, Masses: []float64{1e10, 1e10}}, res)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "binary_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "binary", meta.Scenario)
	assert.Equal(t, 2, meta.Bodies)
	assert.Equal(t, 2, meta.Dim)
	assert.Equal(t, 250.0, meta.Threshold)
	assert.Equal(t, res.InitialEnergy, meta.InitialEnergy)
	assert.Equal(t, res.EnergyDrift, meta.EnergyDrift)
	assert.Equal(t, 1e-9, meta.Metrics["energy_drift"])
	assert.InDelta(t, 0.2, meta.Duration(), 1e-12)

	frames, err := st.LoadFrames(runID)
	require.NoError(t, err)
	require.Len(t, frames, len(res.Frames))
	for i, f := range frames {
		assert.Equal(t, res.Frames[i].Step, f.Step)
		assert.Equal(t, res.Frames[i].Time, f.Time)
		assert.Equal(t, res.Frames[i].Energy, f.Energy)
		assert.Equal(t, res.Frames[i].Positions, f.Positions, "positions survive the CSV exactly")
	}
}

func TestStatesHeader(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	runID, err := st.Save(RunMetadata{Scenario: "binary", Dt: 0.01}, sampleResult(t))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, runID, "states.csv"))
	require.NoError(t, err)
	header := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, "time,energy,p0_x,p0_y,p1_x,p1_y", header)
}

func TestColumn(t *testing.T) {
	assert.Equal(t, "p3_z", Column(3, 2))
	assert.Equal(t, "p0_3", Column(0, 3))
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	require.NoError(t, err, "a missing directory lists as empty")
	assert.Empty(t, runs)

	require.NoError(t, st.Init())
	first, err := st.Save(RunMetadata{Scenario: "earth", Dt: 0.01}, sampleResult(t))
	require.NoError(t, err)
	second, err := st.Save(RunMetadata{Scenario: "ring", Dt: 0.01}, sampleResult(t))
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestLoadFramesRejectsCorruptRows(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	runID, err := st.Save(RunMetadata{Scenario: "binary", Dt: 0.01}, sampleResult(t))
	require.NoError(t, err)

	csvPath := filepath.Join(dir, runID, "states.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("time,energy,p0_x,p0_y,p1_x,p1_y\n0,1,2\n"), 0644))
	_, err = st.LoadFrames(runID)
	assert.Error(t, err)

	_, err = st.LoadFrames("missing")
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	res := sampleResult(t)
	runID, err := st.Save(RunMetadata{Scenario: "binary", Integrator: "rk4", Dt: 0.01}, res)
	require.NoError(t, err)

	out := filepath.Join(dir, "run.json")
	require.NoError(t, st.ExportJSON(runID, out))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var data ExportData
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Equal(t, runID, data.Run.ID)
	assert.Equal(t, len(res.Frames), data.Frames)
	assert.Equal(t, res.Frames[2].Positions, data.Positions[2])

	var buf bytes.Buffer
	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.NoError(t, WriteJSON(&buf, meta, nil))
	assert.Contains(t, buf.String(), `"frames": 0`)
}
