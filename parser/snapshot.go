package parser

import (
	"fmt"
	"hospital-triage/errors"
	"hospital-triage/metrics"
	"hospital-triage/models"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Snapshot is one consistent copy of the patient and resource lists.
type Snapshot struct {
	Patients  []models.Patient
	Resources []models.Resource
}

// yamlSnapshot mirrors the YAML document layout:
//
//	patients:
//	  - id: p1
//	    name: Ana
//	    age: 34
//	    area: emergency
//	    priority: high
//	    status: waiting
//	    arrival_time: 2024-03-10T11:00:00Z
//	resources:
//	  - id: b1
//	    name: Bed 1
//	    type: bed
//	    available: true
type yamlSnapshot struct {
	Patients  []rawPatient  `yaml:"patients"`
	Resources []rawResource `yaml:"resources"`
}

// ParseSnapshot reads a YAML document holding both lists. Entries are
// validated with the same rules as the CSV rows; Line in a returned
// ParseError is the 1-based index of the entry within its list.
func ParseSnapshot(r io.Reader) (*Snapshot, error) {
	start := time.Now()
	defer func() { metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds()) }()

	var doc yamlSnapshot
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		metrics.ParserErrorsTotal.WithLabelValues("yaml").Inc()
		return nil, fmt.Errorf("error decoding YAML snapshot: %w", err)
	}

	snap := &Snapshot{
		Patients:  make([]models.Patient, 0, len(doc.Patients)),
		Resources: make([]models.Resource, 0, len(doc.Resources)),
	}

	for i, raw := range doc.Patients {
		p, err := buildPatient(raw)
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues(errors.Kind(err)).Inc()
			return nil, &errors.ParseError{
				Line:   i + 1,
				Record: []string{raw.ID, raw.Name, raw.Age, raw.Area, raw.Priority, raw.Status, raw.ArrivalTime},
				Err:    err,
			}
		}
		snap.Patients = append(snap.Patients, p)
	}

	for i, raw := range doc.Resources {
		res, err := buildResource(raw)
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues(errors.Kind(err)).Inc()
			return nil, &errors.ParseError{
				Line:   i + 1,
				Record: []string{raw.ID, raw.Name, raw.Type, raw.Available},
				Err:    err,
			}
		}
		snap.Resources = append(snap.Resources, res)
	}

	metrics.ParserRecordsTotal.WithLabelValues("patient").Add(float64(len(snap.Patients)))
	metrics.ParserRecordsTotal.WithLabelValues("resource").Add(float64(len(snap.Resources)))
	return snap, nil
}

// Sources names the files a snapshot is loaded from. Either SnapshotPath or
// both CSV paths must be set; SnapshotPath wins when all are given.
type Sources struct {
	PatientsPath  string
	ResourcesPath string
	SnapshotPath  string
}

// Paths returns every non-empty path in s.
func (s Sources) Paths() []string {
	if s.SnapshotPath != "" {
		return []string{s.SnapshotPath}
	}
	var out []string
	for _, p := range []string{s.PatientsPath, s.ResourcesPath} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the snapshot from disk. The patient list is returned as read;
// callers filter it with Waiting before evaluation.
func Load(src Sources) (*Snapshot, error) {
	if src.SnapshotPath != "" {
		f, err := os.Open(src.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("error opening snapshot: %w", err)
		}
		defer f.Close()
		return ParseSnapshot(f)
	}

	if src.PatientsPath == "" || src.ResourcesPath == "" {
		return nil, errors.ErrNoInput
	}

	pf, err := os.Open(src.PatientsPath)
	if err != nil {
		return nil, fmt.Errorf("error opening patients file: %w", err)
	}
	defer pf.Close()

	patients, err := ParsePatients(pf)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", src.PatientsPath, err)
	}

	rf, err := os.Open(src.ResourcesPath)
	if err != nil {
		return nil, fmt.Errorf("error opening resources file: %w", err)
	}
	defer rf.Close()

	resources, err := ParseResources(rf)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", src.ResourcesPath, err)
	}

	return &Snapshot{Patients: patients, Resources: resources}, nil
}
