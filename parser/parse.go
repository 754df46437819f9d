package parser

import (
	"encoding/csv"
	"fmt"
	"hospital-triage/errors"
	"hospital-triage/metrics"
	"hospital-triage/models"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PatientFields is the number of columns in a patient row:
// id, name, age, area, priority, status, arrival_time.
const PatientFields = 7

// ResourceFields is the number of columns in a resource row:
// id, name, type, available.
const ResourceFields = 4

// ParsePatients reads patient rows from CSV.
// Lines starting with '#' are headers/comments and are skipped.
// Area, priority and status accept the canonical names as well as the
// Spanish labels (emergencia, critica, esperando, ...).
// The arrival time must be RFC 3339. An empty id gets a generated UUID.
func ParsePatients(r io.Reader) ([]models.Patient, error) {
	start := time.Now()
	defer func() { metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds()) }()

	var patients []models.Patient
	err := readRecords(r, func(line int, record []string) error {
		p, err := patientFromRecord(record)
		if err != nil {
			return &errors.ParseError{Line: line, Record: record, Err: err}
		}
		patients = append(patients, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ParserRecordsTotal.WithLabelValues("patient").Add(float64(len(patients)))
	return patients, nil
}

// ParseResources reads resource rows from CSV.
// Lines starting with '#' are headers/comments and are skipped.
func ParseResources(r io.Reader) ([]models.Resource, error) {
	start := time.Now()
	defer func() { metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds()) }()

	var resources []models.Resource
	err := readRecords(r, func(line int, record []string) error {
		res, err := resourceFromRecord(record)
		if err != nil {
			return &errors.ParseError{Line: line, Record: record, Err: err}
		}
		resources = append(resources, res)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ParserRecordsTotal.WithLabelValues("resource").Add(float64(len(resources)))
	return resources, nil
}

// Waiting returns the patients whose status is waiting, preserving order.
// This is the active queue the triage engine operates on.
func Waiting(patients []models.Patient) []models.Patient {
	out := make([]models.Patient, 0, len(patients))
	for _, p := range patients {
		if p.Status == models.StatusWaiting {
			out = append(out, p)
		}
	}
	return out
}

func readRecords(r io.Reader, handle func(line int, record []string) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	lineNum := 0
	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			return nil
		}
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues("csv").Inc()
			return fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}

		// Handle headers/comments
		if len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
			continue
		}

		if err := handle(lineNum, record); err != nil {
			metrics.ParserErrorsTotal.WithLabelValues(errors.Kind(err)).Inc()
			return err
		}
	}
}

func patientFromRecord(record []string) (models.Patient, error) {
	if len(record) != PatientFields {
		return models.Patient{}, errors.ErrInvalidFieldCount
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	return buildPatient(rawPatient{
		ID:          record[0],
		Name:        record[1],
		Age:         record[2],
		Area:        record[3],
		Priority:    record[4],
		Status:      record[5],
		ArrivalTime: record[6],
	})
}

func resourceFromRecord(record []string) (models.Resource, error) {
	if len(record) != ResourceFields {
		return models.Resource{}, errors.ErrInvalidFieldCount
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	return buildResource(rawResource{
		ID:        record[0],
		Name:      record[1],
		Type:      record[2],
		Available: record[3],
	})
}

// rawPatient carries unvalidated patient fields from any input format.
type rawPatient struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Age         string `yaml:"age"`
	Area        string `yaml:"area"`
	Priority    string `yaml:"priority"`
	Status      string `yaml:"status"`
	ArrivalTime string `yaml:"arrival_time"`
}

// rawResource carries unvalidated resource fields from any input format.
type rawResource struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Available string `yaml:"available"`
}

func buildPatient(raw rawPatient) (models.Patient, error) {
	p := models.Patient{ID: raw.ID, Name: raw.Name}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Name == "" {
		return models.Patient{}, errors.ErrEmptyName
	}

	age, err := strconv.Atoi(raw.Age)
	if err != nil {
		return models.Patient{}, fmt.Errorf("%w: %v", errors.ErrInvalidAge, err)
	}
	if age < 0 {
		return models.Patient{}, fmt.Errorf("%w: %d is negative", errors.ErrInvalidAge, age)
	}
	p.Age = age

	var ok bool
	if p.Area, ok = models.ParseArea(raw.Area); !ok {
		return models.Patient{}, fmt.Errorf("%w: %q", errors.ErrInvalidArea, raw.Area)
	}
	if p.Priority, ok = models.ParsePriority(raw.Priority); !ok {
		return models.Patient{}, fmt.Errorf("%w: %q", errors.ErrInvalidPriority, raw.Priority)
	}

	// A row without status is a fresh registration.
	p.Status = models.StatusWaiting
	if raw.Status != "" {
		if p.Status, ok = models.ParseStatus(raw.Status); !ok {
			return models.Patient{}, fmt.Errorf("%w: %q", errors.ErrInvalidStatus, raw.Status)
		}
	}

	p.ArrivalTime, err = time.Parse(time.RFC3339, raw.ArrivalTime)
	if err != nil {
		return models.Patient{}, fmt.Errorf("%w: %v", errors.ErrInvalidArrivalTime, err)
	}

	return p, nil
}

func buildResource(raw rawResource) (models.Resource, error) {
	res := models.Resource{ID: raw.ID, Name: raw.Name, Type: raw.Type}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.Name == "" {
		return models.Resource{}, errors.ErrEmptyName
	}

	available, err := parseAvailable(raw.Available)
	if err != nil {
		return models.Resource{}, fmt.Errorf("%w: %v", errors.ErrInvalidAvailable, err)
	}
	res.Available = available

	return res, nil
}

func parseAvailable(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "si", "sí", "available", "free":
		return true, nil
	case "no", "n", "busy", "occupied":
		return false, nil
	}
	return strconv.ParseBool(value)
}
