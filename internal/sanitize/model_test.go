package sanitize_test

import (
	"encoding/json"
	"fmt"
	"github.com/myrjola/dossier/internal/models"
	"github.com/myrjola/dossier/internal/sanitize"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
	"time"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestVocabularies(t *testing.T) {
	require.Equal(t, models.StatusClosed, sanitize.Status("CLOSED"))
	require.Equal(t, models.StatusActive, sanitize.Status("frozen"))
	require.Equal(t, models.StatusActive, sanitize.Status(nil))

	require.Equal(t, models.PressureCritical, sanitize.Pressure("Critical"))
	require.Equal(t, models.PressureProbable, sanitize.Pressure("probable"))
	require.Equal(t, models.PressureUncertain, sanitize.Pressure("extreme"))
	require.Equal(t, models.PressureUncertain, sanitize.Pressure("high1"))

	require.Equal(t, models.EvidenceSuppressed, sanitize.EvidenceState(" suppressed "))
	require.Equal(t, models.EvidenceLogged, sanitize.EvidenceState("destroyed"))
}

func TestISOTime(t *testing.T) {
	tests := []struct {
		value any
		want  time.Time
	}{
		{value: "2026-02-01T20:00:00.000Z", want: time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC)},
		{value: "2026-02-01T21:30:00+01:00", want: time.Date(2026, 2, 1, 20, 30, 0, 0, time.UTC)},
		{value: "2026-03-04", want: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
		{value: "not a date", want: sanitize.Epoch},
		{value: "", want: sanitize.Epoch},
		{value: 12, want: sanitize.Epoch},
		{value: "0000-01-01T00:00:00+01:00", want: sanitize.Epoch},
	}
	for _, tt := range tests {
		require.True(t, tt.want.Equal(sanitize.ISOTime(tt.value)), "value %v", tt.value)
	}
}

func TestTurn(t *testing.T) {
	tests := []struct {
		value any
		want  int
	}{
		{value: 3.0, want: 3},
		{value: 3.9, want: 3},
		{value: -2.0, want: 0},
		{value: "3", want: 0},
		{value: math.NaN(), want: 0},
		{value: math.Inf(1), want: math.MaxInt32},
		{value: json.Number("4.2"), want: 4},
		{value: json.Number("four"), want: 0},
		{value: 7, want: 7},
		{value: true, want: 0},
		{value: nil, want: 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, sanitize.Turn(tt.value), "value %v", tt.value)
	}
}

func TestVisibleState(t *testing.T) {
	raw := decode(t, `{
		"case_id": "case_042",
		"crime_type": "Hit And Run",
		"turn": 2.7,
		"status": "paused",
		"evidence": [
			{"id": "e1", "label": "Tyre marks", "category": "physical", "state": "surfaced",
			 "summary": "Probable evidence with stable integrity profile."},
			{"label": "Phone log", "category": "digital7", "state": "vanished", "summary": "Credibility 0.2"},
			"garbage"
		],
		"timeline": [
			{"time": "2026-02-01T20:00:00.000Z", "label": "turn_0", "details": "Report filed."},
			{"time": "yesterday", "details": "Belief revised."}
		],
		"investigator_signals": {"priority": "Public Relations", "demeanour": "guarded", "recent_shift": "seed_shift"},
		"pressure": {"public": "HIGH", "institutional": "volatile", "personal": 3}
	}`)

	want := models.VisibleState{
		CaseID:    "case_042",
		CrimeType: "hit_and_run",
		Turn:      2,
		Status:    models.StatusPaused,
		Evidence: []models.EvidenceItem{
			{ID: "e1", Label: "Tyre marks", Category: "physical", State: models.EvidenceSurfaced,
				Summary: "Probable evidence with stable integrity profile."},
			{ID: "e2", Label: "Phone log", Category: "uncertain", State: models.EvidenceLogged,
				Summary: sanitize.Restricted},
			{ID: "e3", Label: "Evidence 3", Category: "uncertain", State: models.EvidenceLogged,
				Summary: "No summary available."},
		},
		Timeline: []models.TimelineItem{
			{Time: time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC), Label: "turn_0", Details: "Report filed."},
			{Time: sanitize.Epoch, Label: "event_2", Details: sanitize.Restricted},
		},
		InvestigatorSignals: models.InvestigatorSignals{
			Priority:    "public_relations",
			Demeanour:   "guarded",
			RecentShift: "uncertain",
		},
		Pressure: models.PressureState{
			Public:        models.PressureHigh,
			Institutional: models.PressureVolatile,
			Personal:      models.PressureUncertain,
		},
	}
	require.Equal(t, want, sanitize.VisibleState(raw))
}

func TestVisibleState_malformed(t *testing.T) {
	for _, raw := range []any{nil, "garbage", 12, []any{1, 2}, decode(t, `{"evidence": {}, "timeline": "x"}`)} {
		got := sanitize.VisibleState(raw)
		require.Equal(t, "case_unknown", got.CaseID)
		require.Equal(t, models.StatusActive, got.Status)
		require.Zero(t, got.Turn)
		require.NotNil(t, got.Evidence)
		require.Empty(t, got.Evidence)
		require.NotNil(t, got.Timeline)
		require.Empty(t, got.Timeline)
		require.Equal(t, models.PressureUncertain, got.Pressure.Public)
		require.Equal(t, "uncertain", got.InvestigatorSignals.Priority)
	}
}

func TestVisibleState_timelineKeepsMostRecent(t *testing.T) {
	timeline := make([]any, 0, 13)
	for i := range 13 {
		timeline = append(timeline, map[string]any{
			"time":    fmt.Sprintf("2026-02-01T%02d:00:00.000Z", i),
			"label":   fmt.Sprintf("turn_%d", i),
			"details": fmt.Sprintf("Entry %d.", i),
		})
	}
	got := sanitize.VisibleState(map[string]any{"timeline": timeline})
	require.Len(t, got.Timeline, models.MaxTimelineItems)
	for i, item := range got.Timeline {
		require.Equal(t, fmt.Sprintf("turn_%d", i+1), item.Label)
	}
}

func TestActions(t *testing.T) {
	raw := decode(t, `{"actions": [
		{"id": "remove_evidence", "label": "Remove Evidence", "enabled": true, "cost": "1 focus",
		 "desc": "Quietly remove a surfaced item.", "disabled_reason": "ignored when enabled"},
		{"id": "seal_archive", "enabled": false, "desc": "Raises suspicion"},
		{"enabled": "true", "disabled_reason": "Needs 40% approval"}
	]}`)

	want := []models.ActionOption{
		{ID: "remove_evidence", Label: "Remove Evidence", Enabled: true, Cost: "1 focus",
			Desc: "Quietly remove a surfaced item.", DisabledReason: ""},
		{ID: "seal_archive", Label: "Seal Archive", Enabled: false, Cost: "",
			Desc: sanitize.Restricted, DisabledReason: "Unavailable."},
		{ID: "action_3", Label: "Action 3", Enabled: false, Cost: "",
			Desc: "", DisabledReason: sanitize.Restricted},
	}
	require.Equal(t, want, sanitize.Actions(raw))
	require.Empty(t, sanitize.Actions(decode(t, `{"actions": null}`)))
	require.NotNil(t, sanitize.Actions("garbage"))
}

func TestApplyActionResponse(t *testing.T) {
	raw := decode(t, `{
		"visible_state": {"case_id": "case_001", "turn": 4},
		"action_result": {"success": true, "summary": "Briefing delayed."}
	}`)
	state, result := sanitize.ApplyActionResponse(raw)
	require.Equal(t, "case_001", state.CaseID)
	require.Equal(t, 4, state.Turn)
	require.Equal(t, models.ActionResult{Success: true, Summary: "Briefing delayed."}, result)

	_, result = sanitize.ApplyActionResponse(decode(t, `{"action_result": {"success": "yes"}}`))
	require.Equal(t, models.ActionResult{Success: false, Summary: "No summary available."}, result)
}

func TestVisibleState_unrecognisedDescriptorsCollapse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		crime string
		cat   string
	}{
		{"seed token", `{"crime_type": "seed_theft", "evidence": [{"category": "rng_bucket"}]}`, "uncertain", "uncertain"},
		{"digits", `{"crime_type": "murder2", "evidence": [{"category": "phys1cal"}]}`, "uncertain", "uncertain"},
		{"missing", `{"evidence": [{}]}`, "uncertain", "uncertain"},
		{"recognised", `{"crime_type": "Fraud", "evidence": [{"category": "Digital"}]}`, "fraud", "digital"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitize.VisibleState(decode(t, tt.raw))
			require.Equal(t, tt.crime, got.CrimeType)
			require.Len(t, got.Evidence, 1)
			require.Equal(t, tt.cat, got.Evidence[0].Category)
		})
	}
}
