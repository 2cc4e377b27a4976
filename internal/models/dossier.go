package models

import (
	"slices"
	"time"
)

// VisibleState is the part of the case the operator is allowed to see.
//
// Values are snapshots: transitions build a new VisibleState instead of mutating one that has been handed out.
// Use Clone before mutating a value that may be shared.
type VisibleState struct {
	CaseID              string              `json:"case_id"`
	CrimeType           string              `json:"crime_type"`
	Turn                int                 `json:"turn"`
	Status              Status              `json:"status"`
	Evidence            []EvidenceItem      `json:"evidence"`
	Timeline            []TimelineItem      `json:"timeline"`
	InvestigatorSignals InvestigatorSignals `json:"investigator_signals"`
	Pressure            PressureState       `json:"pressure"`
}

// MaxTimelineItems is the number of most recent timeline entries a VisibleState retains.
const MaxTimelineItems = 12

type EvidenceItem struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Category string        `json:"category"`
	State    EvidenceState `json:"state"`
	Summary  string        `json:"summary"`
}

type TimelineItem struct {
	Time    time.Time `json:"time"`
	Label   string    `json:"label"`
	Details string    `json:"details"`
}

type InvestigatorSignals struct {
	Priority    string `json:"priority"`
	Demeanour   string `json:"demeanour"`
	RecentShift string `json:"recent_shift"`
}

type PressureState struct {
	Public        Pressure `json:"public"`
	Institutional Pressure `json:"institutional"`
	Personal      Pressure `json:"personal"`
}

// ActionOption is one action the operator may apply. DisabledReason is only set when Enabled is false.
type ActionOption struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Enabled        bool   `json:"enabled"`
	Cost           string `json:"cost,omitempty"`
	Desc           string `json:"desc"`
	DisabledReason string `json:"disabled_reason,omitempty"`
}

// ActionResult reports the outcome of applying an action.
type ActionResult struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}

// Clone returns a deep copy of s that shares no memory with it.
func (s VisibleState) Clone() VisibleState {
	s.Evidence = slices.Clone(s.Evidence)
	s.Timeline = slices.Clone(s.Timeline)
	return s
}

// AppendTimeline returns a copy of s with item appended to the timeline, keeping only the most recent
// MaxTimelineItems entries.
func (s VisibleState) AppendTimeline(item TimelineItem) VisibleState {
	s = s.Clone()
	s.Timeline = append(s.Timeline, item)
	if overflow := len(s.Timeline) - MaxTimelineItems; overflow > 0 {
		s.Timeline = slices.Clone(s.Timeline[overflow:])
	}
	return s
}
