package io

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"id3/pkg/model"
)

const (
	// ContinuousToken marks a numeric attribute in a setup file
	ContinuousToken = "continuous"

	// DefaultUnknownToken marks a missing value in a data file
	DefaultUnknownToken = "?"
)

var ErrUnknownValue = errors.New("unknown value")

type DataError struct {
	Line  int
	Error string
}

// DataReport summarizes the records that did not make it into a dataset.
type DataReport struct {
	Errors []DataError
	// Discarded counts records dropped because they contain the unknown token
	Discarded int
}

// LoadSchema reads a setup file. Each line describes one attribute:
//
//	name,column,isTarget,continuous
//	name,column,isTarget,label1,label2,...
//
// isTarget is "0" for features, anything else marks the target.
func LoadSchema(setupFile string) (*model.Schema, error) {
	inputFile, err := os.Open(setupFile)
	if err != nil {
		return nil, fmt.Errorf("error opening setup file: %w", err)
	}
	defer inputFile.Close()

	return ReadSchema(inputFile)
}

func ReadSchema(r io.Reader) (*model.Schema, error) {
	reader := newReader(r, ',')
	schema := model.NewSchema()

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading setup line %d: %w", recordLine(reader, err), err)
		}
		record = trimFields(record)
		if isBlank(record) {
			continue
		}
		if err := parseAttribute(schema, record); err != nil {
			return nil, fmt.Errorf("error parsing setup line %d: %w", recordLine(reader, nil), err)
		}
	}

	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

func parseAttribute(schema *model.Schema, record []string) error {
	if len(record) < 4 {
		return fmt.Errorf("expected at least 4 fields, got %d", len(record))
	}
	name := record[0]
	column, err := strconv.Atoi(record[1])
	if err != nil {
		return fmt.Errorf("invalid column for attribute %s: %w", name, err)
	}
	isTarget := record[2] != "0"
	discrete := record[3] != ContinuousToken

	var labels []string
	if discrete {
		labels = record[3:]
	}

	if isTarget {
		if !discrete {
			return fmt.Errorf("target attribute %s must be discrete", name)
		}
		_, err = schema.SetTarget(name, column, labels)
	} else {
		_, err = schema.AddFeature(name, column, discrete, labels)
	}
	return err
}

type DataParameters struct {
	DataFile string
	// Separator defaults to ','
	Separator rune
	// UnknownToken marks a missing value; empty disables the check
	UnknownToken string
	// DiscardUnknown drops records holding UnknownToken instead of reporting them as errors
	DiscardUnknown bool
}

// LoadData reads a headerless delimited data file into a Dataset. Malformed records are
// reported in the DataReport and skipped.
func LoadData(p DataParameters, schema *model.Schema) (*model.Dataset, *DataReport, error) {
	inputFile, err := os.Open(p.DataFile)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	defer inputFile.Close()

	return ReadData(inputFile, p, schema)
}

func ReadData(r io.Reader, p DataParameters, schema *model.Schema) (*model.Dataset, *DataReport, error) {
	if err := schema.Validate(); err != nil {
		return nil, nil, err
	}
	separator := p.Separator
	if separator == 0 {
		separator = ','
	}
	reader := newReader(r, separator)
	dataset := model.NewDataset(schema)
	report := &DataReport{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		currentLine := recordLine(reader, err)
		if err != nil {
			report.Errors = append(report.Errors, DataError{Line: currentLine, Error: err.Error()})
			continue
		}
		record = trimFields(record)
		if isBlank(record) {
			continue
		}

		values, err := parseRecord(schema, p, record)
		if errors.Is(err, ErrUnknownValue) && p.DiscardUnknown {
			report.Discarded++
			continue
		}
		if err == nil {
			err = dataset.Add(values)
		}
		if err != nil {
			report.Errors = append(report.Errors, DataError{Line: currentLine, Error: err.Error()})
			continue
		}
	}

	return dataset, report, nil
}

func parseRecord(schema *model.Schema, p DataParameters, record []string) ([]float64, error) {
	// The unknown token wins over any other problem in the record
	if p.UnknownToken != "" {
		for _, a := range schema.Attributes {
			if a.Column < len(record) && record[a.Column] == p.UnknownToken {
				return nil, fmt.Errorf("%w for attribute %s", ErrUnknownValue, a.Name)
			}
		}
	}

	values := make([]float64, schema.Width())
	for _, a := range schema.Attributes {
		if a.Column >= len(record) {
			return nil, fmt.Errorf("record has %d fields, attribute %s needs column %d", len(record), a.Name, a.Column)
		}
		field := record[a.Column]

		if a.Discrete {
			index, ok := a.Domain.ContainsName(field)
			if !ok {
				return nil, fmt.Errorf("unknown value %s for categorical attribute %s", field, a.Name)
			}
			values[a.ID] = float64(index)
			continue
		}

		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing feature %s: %w", a.Name, err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("non finite value %s for feature %s", field, a.Name)
		}
		values[a.ID] = value
	}
	return values, nil
}

func newReader(r io.Reader, separator rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = separator
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	return reader
}

// recordLine returns the file line the record last read by reader starts on.
func recordLine(reader *csv.Reader, err error) int {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.StartLine
	}
	if err != nil {
		return 0
	}
	line, _ := reader.FieldPos(0)
	return line
}

func isBlank(record []string) bool {
	for _, field := range record {
		if field != "" {
			return false
		}
	}
	return true
}

func trimFields(record []string) []string {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return record
}
