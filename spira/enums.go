package spira

import (
	"fmt"
	"math"
	"strings"
)

// RequirementStatus is the workflow status of a requirement
type RequirementStatus int

const (
	// RequirementStatusRequested indicates a newly requested requirement
	RequirementStatusRequested RequirementStatus = iota + 1
	// RequirementStatusPlanned indicates a requirement scheduled for a release
	RequirementStatusPlanned
	// RequirementStatusInProgress indicates a requirement under development
	RequirementStatusInProgress
	// RequirementStatusDeveloped indicates development has finished
	RequirementStatusDeveloped
	// RequirementStatusAccepted indicates the requirement was accepted
	RequirementStatusAccepted
	// RequirementStatusRejected indicates the requirement was rejected
	RequirementStatusRejected
	// RequirementStatusEvaluated indicates the requirement was evaluated
	RequirementStatusEvaluated
	// RequirementStatusObsolete indicates the requirement no longer applies
	RequirementStatusObsolete
	// RequirementStatusTested indicates the requirement passed testing
	RequirementStatusTested
	// RequirementStatusCompleted indicates the requirement is done
	RequirementStatusCompleted
)

var requirementStatusNames = map[RequirementStatus]string{
	RequirementStatusRequested:  "Requested",
	RequirementStatusPlanned:    "Planned",
	RequirementStatusInProgress: "InProgress",
	RequirementStatusDeveloped:  "Developed",
	RequirementStatusAccepted:   "Accepted",
	RequirementStatusRejected:   "Rejected",
	RequirementStatusEvaluated:  "Evaluated",
	RequirementStatusObsolete:   "Obsolete",
	RequirementStatusTested:     "Tested",
	RequirementStatusCompleted:  "Completed",
}

// String returns the string representation of a RequirementStatus
func (s RequirementStatus) String() string {
	if name, ok := requirementStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RequirementStatus(%d)", int(s))
}

// Valid reports whether s is one of the service's status codes
func (s RequirementStatus) Valid() bool {
	_, ok := requirementStatusNames[s]
	return ok
}

// MarshalText renders the status by name
func (s RequirementStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid requirement status %d", int(s))
	}
	return []byte(s.String()), nil
}

// ParseRequirementStatus resolves a status name, ignoring case, spaces and underscores
func ParseRequirementStatus(name string) (RequirementStatus, error) {
	for s, n := range requirementStatusNames {
		if normalizeEnumName(n) == normalizeEnumName(name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown requirement status %q", name)
}

// RequirementImportance is the priority of a requirement
type RequirementImportance int

const (
	// RequirementImportanceCritical is the highest importance
	RequirementImportanceCritical RequirementImportance = iota + 1
	RequirementImportanceHigh
	RequirementImportanceMedium
	RequirementImportanceLow
)

var requirementImportanceNames = map[RequirementImportance]string{
	RequirementImportanceCritical: "Critical",
	RequirementImportanceHigh:     "High",
	RequirementImportanceMedium:   "Medium",
	RequirementImportanceLow:      "Low",
}

// String returns the string representation of a RequirementImportance
func (i RequirementImportance) String() string {
	if name, ok := requirementImportanceNames[i]; ok {
		return name
	}
	return fmt.Sprintf("RequirementImportance(%d)", int(i))
}

// Valid reports whether i is one of the service's importance codes
func (i RequirementImportance) Valid() bool {
	_, ok := requirementImportanceNames[i]
	return ok
}

// MarshalText renders the importance by name
func (i RequirementImportance) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("invalid requirement importance %d", int(i))
	}
	return []byte(i.String()), nil
}

// ParseRequirementImportance resolves an importance name, ignoring case
func ParseRequirementImportance(name string) (RequirementImportance, error) {
	for i, n := range requirementImportanceNames {
		if normalizeEnumName(n) == normalizeEnumName(name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown requirement importance %q", name)
}

func normalizeEnumName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// decodeEnum reads a required integer-coded enum field. Codes outside the
// known table are an error, never a default.
func decodeEnum[E ~int](o Object, field string, valid func(E) bool) (E, error) {
	v, err := o.required(field)
	if err != nil {
		return 0, err
	}
	return enumFromValue(field, v, valid)
}

// decodeOptionalEnum is decodeEnum for nullable fields: absence or null is
// "no value", a present unknown code is still an error.
func decodeOptionalEnum[E ~int](o Object, field string, valid func(E) bool) (*E, error) {
	v, ok := o.optional(field)
	if !ok {
		return nil, nil
	}
	e, err := enumFromValue(field, v, valid)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func enumFromValue[E ~int](field string, v any, valid func(E) bool) (E, error) {
	code, err := asInt(field, v)
	if err != nil {
		return 0, err
	}
	if code < 1 || code > math.MaxInt32 || !valid(E(code)) {
		return 0, &UnknownEnumCodeError{Field: field, Value: code}
	}
	return E(code), nil
}
