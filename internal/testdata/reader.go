// Package testdata reads fixture files (JSON, YAML, TOML, CSV) from the
// configured test-data directory and offers typed lookups for the common
// ones (user credentials, booking payloads).
package testdata

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/gti/booking-qa/internal/logging"
	"github.com/gti/booking-qa/internal/models"
)

// UserCredentials is one entry of the users.yaml fixture.
type UserCredentials struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	Role     string `yaml:"role" json:"role"`
}

// Reader loads fixture files relative to a test-data directory.
type Reader struct {
	dir string
	log zerolog.Logger
}

// NewReader returns a Reader rooted at dir.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir, log: logging.Get("data")}
}

// Read loads a fixture file, dispatching on its extension. JSON, YAML and
// TOML decode into generic maps/slices; CSV returns []map[string]string.
func (r *Reader) Read(file string) (interface{}, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		var v interface{}
		if err := r.ReadJSON(file, &v); err != nil {
			return nil, err
		}
		return v, nil
	case ".yaml", ".yml":
		var v interface{}
		if err := r.ReadYAML(file, &v); err != nil {
			return nil, err
		}
		return v, nil
	case ".toml":
		var v map[string]interface{}
		if err := r.ReadTOML(file, &v); err != nil {
			return nil, err
		}
		return v, nil
	case ".csv":
		return r.ReadCSV(file)
	default:
		return nil, fmt.Errorf("unsupported test data format %q", filepath.Ext(file))
	}
}

// ReadJSON decodes a JSON fixture into v.
func (r *Reader) ReadJSON(file string, v interface{}) error {
	data, err := r.readFile(file)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return nil
}

// ReadYAML decodes a YAML fixture into v.
func (r *Reader) ReadYAML(file string, v interface{}) error {
	data, err := r.readFile(file)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return nil
}

// ReadTOML decodes a TOML fixture into v.
func (r *Reader) ReadTOML(file string, v interface{}) error {
	data, err := r.readFile(file)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return nil
}

// ReadCSV reads a CSV fixture into one map per data row, keyed by the
// header row.
func (r *Reader) ReadCSV(file string) ([]map[string]string, error) {
	data, err := r.readFile(file)
	if err != nil {
		return nil, err
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file %s has no header row", file)
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, key := range header {
			row[key] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// User looks up named credentials in the users.yaml fixture.
func (r *Reader) User(name string) (*UserCredentials, error) {
	var doc struct {
		Users map[string]UserCredentials `yaml:"users"`
	}
	if err := r.ReadYAML("users.yaml", &doc); err != nil {
		return nil, err
	}

	creds, ok := doc.Users[name]
	if !ok {
		return nil, fmt.Errorf("user %q not found in users.yaml", name)
	}
	return &creds, nil
}

// Booking looks up a booking payload by kind in the booking_data.json
// fixture. An empty kind means "default".
func (r *Reader) Booking(kind string) (*models.CreateBookingRequest, error) {
	if kind == "" {
		kind = "default"
	}

	var doc map[string]models.CreateBookingRequest
	if err := r.ReadJSON("booking_data.json", &doc); err != nil {
		return nil, err
	}

	payload, ok := doc[kind]
	if !ok {
		return nil, fmt.Errorf("booking kind %q not found in booking_data.json", kind)
	}
	return &payload, nil
}

func (r *Reader) readFile(file string) ([]byte, error) {
	path := filepath.Join(r.dir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file %s: %w", path, err)
	}
	r.log.Debug().Str("file", file).Int("bytes", len(data)).Msg("loaded test data")
	return data, nil
}
