package engine

import (
	"context"
	"fmt"
	"github.com/myrjola/dossier/internal/models"
	"github.com/myrjola/dossier/internal/random"
	"log/slog"
	"slices"
	"sync"
	"time"
)

const (
	ActionRemoveEvidence  = "remove_evidence"
	ActionDelayBriefing   = "delay_briefing"
	ActionReframePriority = "reframe_priority"
	ActionSealArchive     = "seal_archive"

	reframedMarker = "priority_reframed"
	notRecognized  = "Action not recognized."
	noSummary      = "No summary available."
)

var (
	crimeTypes       = []string{"murder", "fraud", "arson", "hit_and_run"}
	priorityRotation = []string{"forensics", "financial", "interviews", "public_relations"}
	demeanours       = []string{"methodical", "guarded", "impatient", "exhausted"}
	recentShifts     = []string{"attention_narrowing", "risk_avoidance", "scope_balancing", "uncertain"}

	secondaryStates = []models.EvidenceState{models.EvidenceLogged, models.EvidenceReview, models.EvidenceSurfaced}
	tertiaryStates  = []models.EvidenceState{models.EvidenceLogged, models.EvidenceReview, models.EvidenceSuppressed}

	publicStart        = []models.Pressure{models.PressureLow, models.PressureModerate, models.PressureElevated}
	institutionalStart = []models.Pressure{
		models.PressureLow, models.PressureModerate, models.PressureElevated, models.PressureHigh,
	}
	personalStart = []models.Pressure{models.PressureLow, models.PressureModerate, models.PressureElevated}

	timelineStart = time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC) //nolint:mnd // first entry of every case.
)

// mockAction is one entry of the mock action catalogue.
type mockAction struct {
	option models.ActionOption
	// guard returns an empty string when the action is allowed, otherwise the reason it is not.
	guard func(models.VisibleState) string
	apply func(models.VisibleState) (models.VisibleState, string)
}

var catalogue = []mockAction{
	{
		option: models.ActionOption{ //nolint:exhaustruct // availability is derived from state.
			ID:    ActionRemoveEvidence,
			Label: "Remove Evidence",
			Cost:  "1 focus",
			Desc:  "Pull the first surfaced item out of the working file.",
		},
		guard: func(s models.VisibleState) string {
			if firstEvidence(s, models.EvidenceSurfaced) < 0 {
				return "No surfaced evidence to remove."
			}
			return ""
		},
		apply: func(s models.VisibleState) (models.VisibleState, string) {
			i := firstEvidence(s, models.EvidenceSurfaced)
			s.Evidence[i].State = models.EvidenceSuppressed
			s.Evidence[i].Summary = "Withdrawn from the working file."
			s.Pressure.Public = models.ShiftPressure(s.Pressure.Public, 1)
			return s, fmt.Sprintf("%s removed from the working file.", s.Evidence[i].Label)
		},
	},
	{
		option: models.ActionOption{ //nolint:exhaustruct // availability is derived from state.
			ID:    ActionDelayBriefing,
			Label: "Delay Briefing",
			Cost:  "2 influence",
			Desc:  "Push the next press briefing back by a day.",
		},
		guard: func(s models.VisibleState) string {
			if s.Pressure.Public == models.PressureCritical {
				return "Public pressure is already critical."
			}
			return ""
		},
		apply: func(s models.VisibleState) (models.VisibleState, string) {
			s.Pressure.Public = models.ShiftPressure(s.Pressure.Public, -1)
			s.Pressure.Institutional = models.ShiftPressure(s.Pressure.Institutional, 1)
			return s, "Press briefing postponed."
		},
	},
	{
		option: models.ActionOption{ //nolint:exhaustruct // availability is derived from state.
			ID:    ActionReframePriority,
			Label: "Reframe Priority",
			Cost:  "1 influence",
			Desc:  "Steer the investigator toward another line of inquiry.",
		},
		guard: func(models.VisibleState) string { return "" },
		apply: func(s models.VisibleState) (models.VisibleState, string) {
			next := (slices.Index(priorityRotation, s.InvestigatorSignals.Priority) + 1) % len(priorityRotation)
			s.InvestigatorSignals.Priority = priorityRotation[next]
			s.InvestigatorSignals.RecentShift = reframedMarker
			return s, fmt.Sprintf("Investigator priority shifted to %s.", models.Humanize(priorityRotation[next]))
		},
	},
	{
		option: models.ActionOption{ //nolint:exhaustruct // availability is derived from state.
			ID:    ActionSealArchive,
			Label: "Seal Archive",
			Cost:  "2 money",
			Desc:  "Move the first suppressed item into the sealed archive.",
		},
		guard: func(s models.VisibleState) string {
			if firstEvidence(s, models.EvidenceSuppressed) < 0 {
				return "No suppressed evidence to seal."
			}
			return ""
		},
		apply: func(s models.VisibleState) (models.VisibleState, string) {
			i := firstEvidence(s, models.EvidenceSuppressed)
			s.Evidence[i].State = models.EvidenceArchived
			s.Evidence[i].Summary = "Sealed in the archive."
			s.Pressure.Institutional = models.ShiftPressure(s.Pressure.Institutional, -1)
			return s, fmt.Sprintf("%s sealed in the archive.", s.Evidence[i].Label)
		},
	},
}

func firstEvidence(s models.VisibleState, state models.EvidenceState) int {
	return slices.IndexFunc(s.Evidence, func(e models.EvidenceItem) bool { return e.State == state })
}

func findAction(id string) (mockAction, bool) {
	i := slices.IndexFunc(catalogue, func(a mockAction) bool { return a.option.ID == id })
	if i < 0 {
		return mockAction{}, false //nolint:exhaustruct // not found.
	}
	return catalogue[i], true
}

// InitialState builds the opening state of the case generated from seed.
// The same seed always produces the same state.
func InitialState(seed int) models.VisibleState {
	seed = NormalizeSeed(seed)
	rng := random.NewSource(seed)

	// The draw order is part of the reproducibility contract.
	crimeType := random.Pick(rng, crimeTypes)
	secondary := random.Pick(rng, secondaryStates)
	tertiary := random.Pick(rng, tertiaryStates)
	turn := 1 + int(rng.Float64()*3) //nolint:mnd // starting turn in [1, 3].
	pressure := models.PressureState{
		Public:        random.Pick(rng, publicStart),
		Institutional: random.Pick(rng, institutionalStart),
		Personal:      random.Pick(rng, personalStart),
	}
	signals := models.InvestigatorSignals{
		Priority:    random.Pick(rng, priorityRotation),
		Demeanour:   random.Pick(rng, demeanours),
		RecentShift: random.Pick(rng, recentShifts),
	}

	return models.VisibleState{
		CaseID:    fmt.Sprintf("case_%03d", seed%1000), //nolint:mnd // three digit case numbers.
		CrimeType: crimeType,
		Turn:      turn,
		Status:    models.StatusActive,
		Evidence: []models.EvidenceItem{
			{ID: "e1", Label: "Scene Photographs", Category: "physical", State: models.EvidenceSurfaced,
				Summary: "Probable evidence with stable integrity profile."},
			{ID: "e2", Label: "Phone Records", Category: "digital", State: secondary,
				Summary: "Uncertain evidence with partially contradictory integrity profile."},
			{ID: "e3", Label: "Witness Statement", Category: "testimonial", State: tertiary,
				Summary: "Probable evidence with contradictory integrity profile."},
			{ID: "e4", Label: "Bank Transfer", Category: "circumstantial", State: models.EvidenceLogged,
				Summary: "Uncertain evidence with stable integrity profile."},
		},
		Timeline: []models.TimelineItem{
			{Time: timelineStart, Label: "turn_0", Details: "Incident reported to dispatch."},
			{Time: timelineStart.Add(time.Hour), Label: "turn_1", Details: "Scene secured by first responders."},
			{Time: timelineStart.Add(2 * time.Hour), Label: "turn_2", Details: "Case file opened."}, //nolint:mnd // third entry.
		},
		InvestigatorSignals: signals,
		Pressure:            pressure,
	}
}

// CrimeTypes returns the crime types a generated case draws from.
func CrimeTypes() []string {
	return slices.Clone(crimeTypes)
}

// CaseOverrides replaces parts of a generated case. Zero fields keep the generated values.
type CaseOverrides struct {
	CrimeType      string
	PublicPressure models.Pressure
	// Evidence replaces the opening evidence. Discovery states are assigned by position, so the seed still
	// decides the states of the second and third items. Missing ids and summaries are filled in.
	Evidence []models.EvidenceItem
}

// GenerateCase builds the opening state of the case generated from seed and applies o to it.
// All draws happen before o is applied, so the seed produces the same pressure and signals with or
// without overrides.
func GenerateCase(seed int, o CaseOverrides) models.VisibleState {
	state := InitialState(seed)
	if o.CrimeType != "" {
		state.CrimeType = o.CrimeType
	}
	if o.PublicPressure != "" {
		state.Pressure.Public = o.PublicPressure
	}
	if len(o.Evidence) == 0 {
		return state
	}
	evidence := make([]models.EvidenceItem, 0, len(o.Evidence))
	for i, item := range o.Evidence {
		item.State = models.EvidenceLogged
		if i < len(state.Evidence) {
			item.State = state.Evidence[i].State
		}
		if item.ID == "" {
			item.ID = fmt.Sprintf("e%d", i+1)
		}
		if item.Summary == "" {
			item.Summary = noSummary
		}
		evidence = append(evidence, item)
	}
	state.Evidence = evidence
	return state
}

// Mock is a deterministic offline simulation implementing Engine.
//
// It never fails: unknown actions and failed guards are reported through models.ActionResult.
type Mock struct {
	logger *slog.Logger
	mu     sync.Mutex
	seed   int
	state  models.VisibleState
}

// NewMock creates a Mock whose case is generated from seed.
func NewMock(seed int, logger *slog.Logger) *Mock {
	seed = NormalizeSeed(seed)
	return &Mock{
		logger: logger,
		mu:     sync.Mutex{},
		seed:   seed,
		state:  InitialState(seed),
	}
}

// Seed returns the seed the current case was generated from.
func (m *Mock) Seed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seed
}

// Reset discards the working state and generates a new case from seed with o applied.
func (m *Mock) Reset(seed int, o CaseOverrides) models.VisibleState {
	seed = NormalizeSeed(seed)
	state := GenerateCase(seed, o)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seed = seed
	m.state = state
	return state.Clone()
}

func (m *Mock) VisibleState(_ context.Context) (models.VisibleState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), nil
}

func (m *Mock) Current(ctx context.Context) (models.VisibleState, error) {
	return m.VisibleState(ctx)
}

func (m *Mock) Replace(state models.VisibleState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
}

// Actions derives the availability of every catalogue action from the working state.
func (m *Mock) Actions(_ context.Context) ([]models.ActionOption, error) {
	m.mu.Lock()
	state := m.state
	m.mu.Unlock()
	return availableActions(state), nil
}

func availableActions(state models.VisibleState) []models.ActionOption {
	actions := make([]models.ActionOption, 0, len(catalogue))
	for _, a := range catalogue {
		option := a.option
		option.DisabledReason = a.guard(state)
		option.Enabled = option.DisabledReason == ""
		actions = append(actions, option)
	}
	return actions
}

// ApplyAction runs actionID against the working state. Params are accepted for contract parity and ignored.
func (m *Mock) ApplyAction(ctx context.Context, actionID string, _ map[string]any) (
	models.VisibleState, models.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, result := transition(m.state, actionID)
	m.state = next
	m.logger.LogAttrs(ctx, slog.LevelDebug, "mock action applied",
		slog.String("action_id", actionID),
		slog.Bool("success", result.Success),
		slog.Int("turn", next.Turn))
	return next.Clone(), result, nil
}

// transition computes the state following actionID without touching state itself.
func transition(state models.VisibleState, actionID string) (models.VisibleState, models.ActionResult) {
	action, ok := findAction(actionID)
	if !ok {
		return state, models.ActionResult{Success: false, Summary: notRecognized}
	}
	if reason := action.guard(state); reason != "" {
		return state, models.ActionResult{Success: false, Summary: reason}
	}

	next, summary := action.apply(state.Clone())
	next.Turn++
	next = next.AppendTimeline(models.TimelineItem{
		Time:    timelineStart.Add(time.Duration(next.Turn+2) * time.Hour), //nolint:mnd // after the opening entries.
		Label:   actionID,
		Details: summary,
	})
	return next, models.ActionResult{Success: true, Summary: summary}
}
