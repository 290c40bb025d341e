package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

const envelopeVersion = 1

// envelope is the stored form of a table.
type envelope struct {
	Version int             `json:"version"`
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	SavedAt time.Time       `json:"saved_at"`
	Columns []columnEntry   `json:"columns"`
	Rows    [][]table.Value `json:"rows"`
}

type columnEntry struct {
	Name string     `json:"name"`
	Kind table.Kind `json:"kind"`
}

// Encode serializes t with its column names, kinds, and order.
func Encode(name string, t *table.Table) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("encode %q: %w", name, err)
	}
	env := envelope{
		Version: envelopeVersion,
		ID:      uuid.NewString(),
		Name:    name,
		SavedAt: time.Now().UTC(),
		Columns: make([]columnEntry, len(t.Columns)),
		Rows:    t.Rows,
	}
	for i, c := range t.Columns {
		env.Columns[i] = columnEntry{Name: c.Name, Kind: c.Kind}
	}
	if env.Rows == nil {
		env.Rows = [][]table.Value{}
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", name, err)
	}
	return data, nil
}

// Decode rebuilds a table from Encode's output.
func Decode(data []byte) (*table.Table, error) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}
	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("decode table: unsupported version %d", env.Version)
	}

	cols := make([]table.Column, len(env.Columns))
	for i, c := range env.Columns {
		cols[i] = table.Column{Name: c.Name, Kind: c.Kind}
	}
	t := table.New(cols)
	t.Rows = make([][]table.Value, 0, len(env.Rows))
	for _, row := range env.Rows {
		if err := t.Append(row); err != nil {
			return nil, fmt.Errorf("decode table %q: %w", env.Name, err)
		}
	}
	return t, nil
}
