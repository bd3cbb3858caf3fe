package cstyle

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS codec for cached violations. Binary, varint-based, and fast enough
// that cache lookups stay cheaper than re-running a check.

// marshalViolations serializes Violations using MUS format
func marshalViolations(v Violations) ([]byte, error) {
	buf := make([]byte, violationsSize(v))
	n := marshalViolationsTo(v, buf)
	return buf[:n], nil
}

// unmarshalViolations deserializes Violations from MUS format
func unmarshalViolations(data []byte) (Violations, error) {
	v, _, err := unmarshalViolationsFrom(data)
	return v, err
}

// violationsSize calculates the exact size needed for MUS encoding
func violationsSize(v Violations) int {
	size := varint.Uint64.Size(uint64(len(v.Violations)))
	for _, violation := range v.Violations {
		size += violationSize(violation)
	}
	return size
}

func violationSize(v Violation) int {
	size := 0
	size += ord.SizeString(v.File, varint.PositiveInt)
	size += ord.SizeString(v.Check, varint.PositiveInt)
	size += varint.PositiveInt.Size(v.Line)
	size += ord.SizeString(v.Message, varint.PositiveInt)
	size += ord.Bool.Size(v.Fixable)
	size += ord.Bool.Size(v.Fixed)
	size += ord.Bool.Size(v.Cached)
	size += ord.SizeString(string(v.Severity), varint.PositiveInt)
	return size
}

func marshalViolationsTo(v Violations, buf []byte) int {
	n := varint.Uint64.Marshal(uint64(len(v.Violations)), buf)
	for _, violation := range v.Violations {
		n += marshalViolationTo(violation, buf[n:])
	}
	return n
}

func marshalViolationTo(v Violation, buf []byte) int {
	n := ord.MarshalString(v.File, varint.PositiveInt, buf)
	n += ord.MarshalString(v.Check, varint.PositiveInt, buf[n:])
	n += varint.PositiveInt.Marshal(v.Line, buf[n:])
	n += ord.MarshalString(v.Message, varint.PositiveInt, buf[n:])
	n += ord.Bool.Marshal(v.Fixable, buf[n:])
	n += ord.Bool.Marshal(v.Fixed, buf[n:])
	n += ord.Bool.Marshal(v.Cached, buf[n:])
	n += ord.MarshalString(string(v.Severity), varint.PositiveInt, buf[n:])
	return n
}

func unmarshalViolationsFrom(buf []byte) (Violations, int, error) {
	var v Violations

	length, n, err := varint.Uint64.Unmarshal(buf)
	if err != nil {
		return v, n, fmt.Errorf("failed to unmarshal violations length: %w", err)
	}

	v.Violations = make([]Violation, length)
	for i := uint64(0); i < length; i++ {
		violation, bytesRead, err := unmarshalViolationFrom(buf[n:])
		if err != nil {
			return v, n, fmt.Errorf("failed to unmarshal violation at index %d: %w", i, err)
		}
		v.Violations[i] = violation
		n += bytesRead
	}

	return v, n, nil
}

func unmarshalViolationFrom(buf []byte) (Violation, int, error) {
	var v Violation
	var n int

	// Strings are a varint length followed by raw bytes, matching
	// ord.MarshalString with varint.PositiveInt on the encode side.
	unmarshalString := func(data []byte) (string, int, error) {
		length, bytesRead, err := varint.PositiveInt.Unmarshal(data)
		if err != nil {
			return "", 0, fmt.Errorf("failed to read string length: %w", err)
		}
		if len(data[bytesRead:]) < length {
			return "", bytesRead, fmt.Errorf("buffer too small for string of length %d", length)
		}
		str := string(data[bytesRead : bytesRead+length])
		return str, bytesRead + length, nil
	}

	var m int
	var err error

	v.File, m, err = unmarshalString(buf[n:])
	if err != nil {
		return v, n, fmt.Errorf("failed to unmarshal File: %w", err)
	}
	n += m

	v.Check, m, err = unmarshalString(buf[n:])
	if err != nil {
		return v, n, fmt.Errorf("failed to unmarshal Check: %w", err)
	}
	n += m

	v.Line, m, err = varint.PositiveInt.Unmarshal(buf[n:])
	if err != nil {
		return v, n, fmt.Errorf("failed to unmarshal Line: %w", err)
	}
	n += m

	v.Message, m, err = unmarshalString(buf[n:])
	if err != nil {
		return v, n, fmt.Errorf("failed to unmarshal Message: %w", err)
	}
	n += m

	v.Fixable, m, err = ord.Bool.Unmarshal(buf[n:])
	if err != nil {
		return v, n, fmt.Errorf("failed to unmarshal Fixable: %w", err)
	}
	n += m

	v.Fixed, m, err = ord.Bool.Unmarshal(buf[n:])
	if err != nil {
		return v, n, fmt.Errorf("failed to unmarshal Fixed: %w", err)
	}
	n += m

	v.Cached, m, err = ord.Bool.Unmarshal(buf[n:])
	if err != nil {
		return v, n, fmt.Errorf("failed to unmarshal Cached: %w", err)
	}
	n += m

	var severity string
	severity, m, err = unmarshalString(buf[n:])
	if err != nil {
		return v, n, fmt.Errorf("failed to unmarshal Severity: %w", err)
	}
	n += m
	v.Severity = Severity(severity)

	return v, n, nil
}
