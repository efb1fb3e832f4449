package spira

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	bracketPrefix = "/Date("
	bracketSuffix = ")/"

	// localLayout is the zone-less ISO form newer service versions emit; it is read as UTC.
	localLayout = "2006-01-02T15:04:05.999999999"
)

// DecodeDate parses a service timestamp. Three encodings are recognised by
// their shape:
//
//	/Date(1707863960317-0600)/    bracketed epoch milliseconds with optional offset
//	1707863960317-0600            bare epoch milliseconds with optional offset
//	2024-02-13T22:39:20.317Z      ISO 8601 / RFC 3339
//
// Epoch milliseconds are always UTC; the offset only selects the location of
// the returned time, so both epoch forms of one moment yield the same instant.
func DecodeDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return time.Time{}, &DateFormatError{Raw: raw, Reason: "empty value"}
	case strings.HasPrefix(s, bracketPrefix):
		if !strings.HasSuffix(s, bracketSuffix) || len(s) < len(bracketPrefix)+len(bracketSuffix) {
			return time.Time{}, &DateFormatError{Raw: raw, Reason: "unterminated /Date(...)/ literal"}
		}
		inner := s[len(bracketPrefix) : len(s)-len(bracketSuffix)]
		if inner == "" || !isEpochShape(inner) {
			return time.Time{}, &DateFormatError{Raw: raw, Reason: "invalid /Date(...)/ contents"}
		}
		return decodeEpoch(raw, inner)
	case isEpochShape(s):
		return decodeEpoch(raw, s)
	case strings.ContainsRune(s, 'T'):
		return decodeISO(raw, s)
	default:
		return time.Time{}, &DateFormatError{Raw: raw, Reason: "unrecognised encoding"}
	}
}

// EncodeDate renders t in the bracketed form, preserving its UTC offset.
// The wire format carries milliseconds, so finer precision is truncated and
// does not survive a round trip through DecodeDate.
func EncodeDate(t time.Time) string {
	_, offset := t.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("/Date(%d%c%02d%02d)/", t.UnixMilli(), sign, offset/3600, (offset%3600)/60)
}

// isEpochShape reports whether s is an optionally signed run of digits
// followed by at most one signed offset.
func isEpochShape(s string) bool {
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s == "" || !isDigit(s[0]) {
		return false
	}
	signs := 0
	for i := 0; i < len(s); i++ {
		switch {
		case isDigit(s[i]):
		case s[i] == '+' || s[i] == '-':
			signs++
		default:
			return false
		}
	}
	return signs <= 1
}

func decodeEpoch(raw, s string) (time.Time, error) {
	millis, offset := s, ""
	if i := strings.IndexAny(s[1:], "+-"); i >= 0 {
		millis, offset = s[:i+1], s[i+1:]
	}

	ms, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return time.Time{}, &DateFormatError{Raw: raw, Reason: fmt.Sprintf("invalid epoch milliseconds %q", millis)}
	}

	loc := time.UTC
	if offset != "" {
		secs, err := parseOffset(offset)
		if err != nil {
			return time.Time{}, &DateFormatError{Raw: raw, Reason: err.Error()}
		}
		loc = time.FixedZone("", secs)
	}

	return time.UnixMilli(ms).In(loc), nil
}

// parseOffset converts a signed hhmm offset into seconds east of UTC.
func parseOffset(offset string) (int, error) {
	if len(offset) != 5 {
		return 0, fmt.Errorf("offset %q is not of the form ±hhmm", offset)
	}
	hh, errH := strconv.Atoi(offset[1:3])
	mm, errM := strconv.Atoi(offset[3:5])
	if errH != nil || errM != nil || !isDigit(offset[1]) || !isDigit(offset[3]) {
		return 0, fmt.Errorf("offset %q is not numeric", offset)
	}
	if hh > 14 || mm > 59 {
		return 0, fmt.Errorf("offset %q out of range", offset)
	}
	// Zone offsets fall on quarter hours.
	if mm%15 != 0 {
		return 0, fmt.Errorf("offset %q is not a whole quarter hour", offset)
	}
	secs := hh*3600 + mm*60
	if offset[0] == '-' {
		secs = -secs
	}
	return secs, nil
}

func decodeISO(raw, s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(localLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &DateFormatError{Raw: raw, Reason: "invalid ISO 8601 timestamp"}
	}
	return t, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
