package output

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/langtrends/pkg/trend"
)

//go:embed schema.json
var documentSchema []byte

// ErrInvalidDocument is returned when a document does not match the schema.
var ErrInvalidDocument = errors.New("output document does not match schema")

// Document is the JSON and YAML representation of a run.
type Document struct {
	Columns  []string      `json:"columns"  yaml:"columns"`
	Relative bool          `json:"relative" yaml:"relative"`
	Rows     []DocumentRow `json:"rows"     yaml:"rows"`
}

// DocumentRow holds one row with every column present.
type DocumentRow struct {
	Date   string             `json:"date"   yaml:"date"`
	Values map[string]float64 `json:"values" yaml:"values"`
}

type encodeFunc func(doc *Document) ([]byte, error)

// Structured buffers rows into a Document and encodes it on Finish.
type Structured struct {
	dest   *Destination
	doc    Document
	encode encodeFunc
}

// NewJSON creates a sink writing an indented JSON document validated against
// the embedded schema.
func NewJSON(dest *Destination, relative bool) *Structured {
	return &Structured{dest: dest, doc: Document{Relative: relative}, encode: encodeJSON}
}

// NewYAML creates a sink writing a YAML document.
func NewYAML(dest *Destination, relative bool) *Structured {
	return &Structured{dest: dest, doc: Document{Relative: relative}, encode: encodeYAML}
}

// Start records the columns.
func (s *Structured) Start(columns []string) error {
	s.doc.Columns = columns
	s.doc.Rows = []DocumentRow{}

	return nil
}

// AddRow buffers a row, filling absent columns with 0.
func (s *Structured) AddRow(columns []string, row trend.Row) error {
	values := make(map[string]float64, len(columns))
	for _, column := range columns {
		values[column] = row.Value(column)
	}

	s.doc.Rows = append(s.doc.Rows, DocumentRow{Date: row.Date, Values: values})

	return nil
}

// Finish encodes and writes the document.
func (s *Structured) Finish() error {
	data, err := s.encode(&s.doc)
	if err != nil {
		return err
	}

	w, err := s.dest.Open()
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	if err != nil {
		s.dest.discard()

		return fmt.Errorf("write document: %w", err)
	}

	return s.dest.Commit()
}

// Abort discards partial output.
func (s *Structured) Abort() error {
	return s.dest.Abort()
}

// Validate checks a document against the embedded JSON schema.
func Validate(doc *Document) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(documentSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate document: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		msgs = append(msgs, resultErr.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

func encodeJSON(doc *Document) ([]byte, error) {
	err := Validate(doc)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return append(data, '\n'), nil
}

func encodeYAML(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}

	return data, nil
}
