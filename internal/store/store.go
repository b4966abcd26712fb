// Package store persists recorded spring traces as browsable runs: one
// directory per run holding metadata.json and trace.csv.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kajander/scrollspring/internal/trace"
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

// RunMetadata describes one saved step-response run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	K         float64            `json:"k"`
	C         float64            `json:"c"`
	From      float64            `json:"from"`
	To        float64            `json:"to"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory. A missing ID or Timestamp is filled in;
// the generated ID is unique at nanosecond resolution so back-to-back
// saves never collide.
func (s *Store) Save(meta RunMetadata, samples []trace.Sample) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Frames = len(samples)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
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

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"frame", "t", "value", "velocity", "settled"}); err != nil {
		return "", err
	}
	for _, sm := range samples {
		row := []string{
			strconv.Itoa(sm.Frame),
			strconv.FormatFloat(sm.T, 'f', 6, 64),
			strconv.FormatFloat(sm.Value, 'f', 6, 64),
			strconv.FormatFloat(sm.Velocity, 'f', 6, 64),
			strconv.FormatBool(sm.Settled),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

// List returns metadata for every readable run. A missing base dir is an
// empty store, not an error.
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

// LoadSamples reads a run's trace back. Malformed rows are skipped.
func (s *Store) LoadSamples(runID string) ([]trace.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []trace.Sample{}, nil
	}

	samples := make([]trace.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 5 {
			continue
		}
		frame, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		t, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			continue
		}
		velocity, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			continue
		}
		settled, err := strconv.ParseBool(rec[4])
		if err != nil {
			continue
		}
		samples = append(samples, trace.Sample{
			Frame:    frame,
			T:        t,
			Value:    value,
			Velocity: velocity,
			Settled:  settled,
		})
	}
	return samples, nil
}
