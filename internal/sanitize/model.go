package sanitize

import (
	"encoding/json"
	"fmt"
	"github.com/myrjola/dossier/internal/models"
	"math"
	"time"
)

// Epoch replaces timeline instants that are missing or cannot be parsed.
var Epoch = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) //nolint:mnd // fixed reference instant.

const (
	idLimit       = 64
	labelLimit    = 80
	timeLimit     = 48
	summaryLimit  = 220
	detailsLimit  = 240
	costLimit     = 32
	maxTurn       = math.MaxInt32
	unknownToken  = "uncertain"
	noSummary     = "No summary available."
	noDetails     = "No details recorded."
	unavailable   = "Unavailable."
	unknownCaseID = "case_unknown"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Status reduces value to a models.Status, falling back to models.StatusActive.
func Status(value any) models.Status {
	return models.ParseStatus(Descriptor(value, string(models.StatusActive)))
}

// Pressure reduces value to a models.Pressure, falling back to models.PressureUncertain.
func Pressure(value any) models.Pressure {
	return models.ParsePressure(Descriptor(value, string(models.PressureUncertain)))
}

// EvidenceState reduces value to a models.EvidenceState, falling back to models.EvidenceLogged.
func EvidenceState(value any) models.EvidenceState {
	return models.ParseEvidenceState(Descriptor(value, string(models.EvidenceLogged)))
}

// ISOTime parses value as a date and returns it in UTC. Blank or unparseable values yield Epoch.
func ISOTime(value any) time.Time {
	s := ClampText(value, "", timeLimit, false)
	if s == "" {
		return Epoch
	}
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		// Outside this range the instant cannot be written back as ISO-8601.
		if t.Year() < 1 || t.Year() > 9999 { //nolint:mnd // four digit years.
			return Epoch
		}
		return t
	}
	return Epoch
}

// Evidence sanitizes the evidence item at index i.
func Evidence(value any, i int) models.EvidenceItem {
	m := object(value)
	return models.EvidenceItem{
		ID:       ClampText(m["id"], fmt.Sprintf("e%d", i+1), idLimit, false),
		Label:    ClampText(m["label"], fmt.Sprintf("Evidence %d", i+1), labelLimit, false),
		Category: Descriptor(m["category"], unknownToken),
		State:    EvidenceState(m["state"]),
		Summary:  ClampText(m["summary"], noSummary, summaryLimit, true),
	}
}

// TimelineItem sanitizes the timeline entry at index i.
func TimelineItem(value any, i int) models.TimelineItem {
	m := object(value)
	return models.TimelineItem{
		Time:    ISOTime(m["time"]),
		Label:   ClampText(m["label"], fmt.Sprintf("event_%d", i+1), labelLimit, false),
		Details: ClampText(m["details"], noDetails, detailsLimit, true),
	}
}

// Action sanitizes the action option at index i. Only disabled actions carry a disabled reason.
func Action(value any, i int) models.ActionOption {
	m := object(value)
	id := ClampText(m["id"], fmt.Sprintf("action_%d", i+1), idLimit, false)
	enabled, _ := m["enabled"].(bool)
	action := models.ActionOption{
		ID:             id,
		Label:          ClampText(m["label"], models.Humanize(id), labelLimit, false),
		Enabled:        enabled,
		Cost:           ClampText(m["cost"], "", costLimit, false),
		Desc:           ClampText(m["desc"], "", detailsLimit, true),
		DisabledReason: "",
	}
	if !enabled {
		action.DisabledReason = ClampText(m["disabled_reason"], unavailable, detailsLimit, true)
	}
	return action
}

// VisibleState sanitizes a decoded visible state object.
func VisibleState(value any) models.VisibleState {
	m := object(value)
	signals := object(m["investigator_signals"])
	pressure := object(m["pressure"])

	rawEvidence := array(m["evidence"])
	evidence := make([]models.EvidenceItem, 0, len(rawEvidence))
	for i, item := range rawEvidence {
		evidence = append(evidence, Evidence(item, i))
	}

	rawTimeline := array(m["timeline"])
	if overflow := len(rawTimeline) - models.MaxTimelineItems; overflow > 0 {
		rawTimeline = rawTimeline[overflow:]
	}
	timeline := make([]models.TimelineItem, 0, len(rawTimeline))
	for i, item := range rawTimeline {
		timeline = append(timeline, TimelineItem(item, i))
	}

	return models.VisibleState{
		CaseID:    ClampText(m["case_id"], unknownCaseID, idLimit, false),
		CrimeType: Descriptor(m["crime_type"], unknownToken),
		Turn:      Turn(m["turn"]),
		Status:    Status(m["status"]),
		Evidence:  evidence,
		Timeline:  timeline,
		InvestigatorSignals: models.InvestigatorSignals{
			Priority:    Descriptor(signals["priority"], unknownToken),
			Demeanour:   Descriptor(signals["demeanour"], unknownToken),
			RecentShift: Descriptor(signals["recent_shift"], unknownToken),
		},
		Pressure: models.PressureState{
			Public:        Pressure(pressure["public"]),
			Institutional: Pressure(pressure["institutional"]),
			Personal:      Pressure(pressure["personal"]),
		},
	}
}

// Actions sanitizes a decoded {"actions": [...]} response.
func Actions(value any) []models.ActionOption {
	raw := array(object(value)["actions"])
	actions := make([]models.ActionOption, 0, len(raw))
	for i, item := range raw {
		actions = append(actions, Action(item, i))
	}
	return actions
}

// ActionResult sanitizes a decoded action result. Anything but a literal true is a failure.
func ActionResult(value any) models.ActionResult {
	m := object(value)
	success, _ := m["success"].(bool)
	return models.ActionResult{
		Success: success,
		Summary: ClampText(m["summary"], noSummary, detailsLimit, true),
	}
}

// ApplyActionResponse sanitizes a decoded {"visible_state": ..., "action_result": ...} response.
func ApplyActionResponse(value any) (models.VisibleState, models.ActionResult) {
	m := object(value)
	return VisibleState(m["visible_state"]), ActionResult(m["action_result"])
}

// Turn coerces value to a floored non-negative integer. Anything that is not a finite number yields 0.
func Turn(value any) int {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		var err error
		if f, err = v.Float64(); err != nil {
			return 0
		}
	default:
		return 0
	}
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= maxTurn {
		return maxTurn
	}
	return int(math.Floor(f))
}

func object(value any) map[string]any {
	m, _ := value.(map[string]any)
	return m
}

func array(value any) []any {
	a, _ := value.([]any)
	return a
}
