package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Extracted is the shape every extraction result must have to be validated.
// A zero Timestamp means the timestamp is absent. A nil VersionChange means no
// version change was extracted.
type Extracted interface {
	Owner() string
	Timestamp() time.Time
	Description() string
	VersionChange() *string
}

// Record is an immutable snapshot of extracted repository metadata.
type Record struct {
	owner         string
	timestamp     time.Time
	description   string
	versionChange *string
}

// NewRecord creates a record. versionChange may be nil.
func NewRecord(owner string, timestamp time.Time, description string, versionChange *string) Record {
	return Record{
		owner:         owner,
		timestamp:     timestamp,
		description:   description,
		versionChange: copyString(versionChange),
	}
}

// FromExtracted snapshots any Extracted value into a Record.
// A nil input yields the zero Record, which fails every required-field check.
func FromExtracted(e Extracted) Record {
	if e == nil {
		return Record{}
	}
	if r, ok := e.(Record); ok {
		return r
	}
	return NewRecord(e.Owner(), e.Timestamp(), e.Description(), e.VersionChange())
}

// Owner returns the repository owner.
func (r Record) Owner() string { return r.owner }

// Timestamp returns the record date.
func (r Record) Timestamp() time.Time { return r.timestamp }

// Description returns the free-text description.
func (r Record) Description() string { return r.description }

// VersionChange returns a copy of the version change, or nil if absent.
func (r Record) VersionChange() *string { return copyString(r.versionChange) }

// VersionChangeOr returns the version change or fallback when absent.
func (r Record) VersionChangeOr(fallback string) string {
	if r.versionChange == nil {
		return fallback
	}
	return *r.versionChange
}

// String returns a one-line description of the record.
func (r Record) String() string {
	return fmt.Sprintf("%s @ %s (%s)", r.owner, formatTimestamp(r.timestamp), r.VersionChangeOr("no version change"))
}

// recordWire is the serialized form shared by JSON and YAML.
type recordWire struct {
	Owner         string  `json:"owner" yaml:"owner"`
	Timestamp     string  `json:"timestamp" yaml:"timestamp"`
	Description   string  `json:"description" yaml:"description"`
	VersionChange *string `json:"version_change,omitempty" yaml:"version_change,omitempty"`
}

func (r Record) wire() recordWire {
	return recordWire{
		Owner:         r.owner,
		Timestamp:     formatTimestamp(r.timestamp),
		Description:   r.description,
		VersionChange: copyString(r.versionChange),
	}
}

func (w recordWire) record() (Record, error) {
	var ts time.Time
	if w.Timestamp != "" {
		parsed, err := ParseTimestamp(w.Timestamp)
		if err != nil {
			return Record{}, err
		}
		ts = parsed
	}
	return NewRecord(w.Owner, ts, w.Description, w.VersionChange), nil
}

// MarshalJSON renders the record with an RFC 3339 timestamp.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// UnmarshalJSON parses a record written by MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	rec, err := w.record()
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r Record) MarshalYAML() (interface{}, error) {
	return r.wire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler via the decode callback form,
// which both YAML v3 module paths accept.
func (r *Record) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w recordWire
	if err := unmarshal(&w); err != nil {
		return err
	}
	rec, err := w.record()
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses ISO-8601 text with or without a zone offset.
// Values without an offset are read in local time.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
