package models

import "slices"

// Status is the lifecycle stage of a case.
type Status string

const (
	StatusActive    Status = "active"
	StatusContained Status = "contained"
	StatusPaused    Status = "paused"
	StatusCold      Status = "cold"
	StatusClosed    Status = "closed"
)

// Statuses lists every recognised Status.
var Statuses = []Status{StatusActive, StatusContained, StatusPaused, StatusCold, StatusClosed}

// ParseStatus returns the Status named by s or StatusActive when s is not recognised.
func ParseStatus(s string) Status {
	if slices.Contains(Statuses, Status(s)) {
		return Status(s)
	}
	return StatusActive
}

// EvidenceState is the discovery state of an evidence item.
type EvidenceState string

const (
	EvidenceSurfaced   EvidenceState = "surfaced"
	EvidenceLogged     EvidenceState = "logged"
	EvidenceReview     EvidenceState = "review"
	EvidenceSuppressed EvidenceState = "suppressed"
	EvidenceArchived   EvidenceState = "archived"
)

// EvidenceStates lists every recognised EvidenceState.
var EvidenceStates = []EvidenceState{
	EvidenceSurfaced, EvidenceLogged, EvidenceReview, EvidenceSuppressed, EvidenceArchived,
}

// ParseEvidenceState returns the EvidenceState named by s or EvidenceLogged when s is not recognised.
func ParseEvidenceState(s string) EvidenceState {
	if slices.Contains(EvidenceStates, EvidenceState(s)) {
		return EvidenceState(s)
	}
	return EvidenceLogged
}

// Pressure is a qualitative pressure label.
type Pressure string

const (
	PressureLow           Pressure = "low"
	PressureModerate      Pressure = "moderate"
	PressureElevated      Pressure = "elevated"
	PressureHigh          Pressure = "high"
	PressureCritical      Pressure = "critical"
	PressureUncertain     Pressure = "uncertain"
	PressureProbable      Pressure = "probable"
	PressureStable        Pressure = "stable"
	PressureVolatile      Pressure = "volatile"
	PressureContradictory Pressure = "contradictory"
)

// PressureScale is the ordered subset of Pressure that can be shifted up and down.
var PressureScale = []Pressure{PressureLow, PressureModerate, PressureElevated, PressureHigh, PressureCritical}

// Pressures lists every recognised Pressure.
var Pressures = append(slices.Clone(PressureScale),
	PressureUncertain, PressureProbable, PressureStable, PressureVolatile, PressureContradictory)

// ParsePressure returns the Pressure named by s or PressureUncertain when s is not recognised.
func ParsePressure(s string) Pressure {
	if slices.Contains(Pressures, Pressure(s)) {
		return Pressure(s)
	}
	return PressureUncertain
}

// ShiftPressure moves p by steps along PressureScale, clamping at both ends.
// Labels outside the scale cannot be shifted and yield PressureUncertain.
func ShiftPressure(p Pressure, steps int) Pressure {
	idx := slices.Index(PressureScale, p)
	if idx < 0 {
		return PressureUncertain
	}
	idx = max(0, min(len(PressureScale)-1, idx+steps))
	return PressureScale[idx]
}
