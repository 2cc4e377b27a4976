package scenario

import (
	"github.com/myrjola/dossier/internal/models"
	"slices"
	"strings"
	"sync"
)

// Store is an in-memory mapping from scenario id to scenario. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	scenarios map[string]Scenario
}

// NewStore creates a Store holding initial. Scenarios that do not normalize are skipped, later ones
// replace earlier ones with the same id.
func NewStore(initial ...Scenario) *Store {
	s := &Store{
		mu:        sync.Mutex{},
		scenarios: make(map[string]Scenario, len(initial)),
	}
	for _, sc := range initial {
		_, _ = s.Save(sc)
	}
	return s
}

// Save normalizes sc and stores it, replacing any scenario with the same id. The stored value is returned.
func (s *Store) Save(sc Scenario) (Scenario, error) {
	normalized, err := sc.Normalize()
	if err != nil {
		return sc, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios[normalized.ID] = normalized.Clone()
	return normalized, nil
}

// Load returns a copy of the scenario stored under id.
func (s *Store) Load(id string) (Scenario, error) {
	if !ValidID(id) {
		return Scenario{}, ErrInvalidID //nolint:exhaustruct // error path.
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scenarios[id]
	if !ok {
		return Scenario{}, ErrNotFound //nolint:exhaustruct // error path.
	}
	return sc.Clone(), nil
}

// Delete removes the scenario stored under id.
func (s *Store) Delete(id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scenarios[id]; !ok {
		return ErrNotFound
	}
	delete(s.scenarios, id)
	return nil
}

// IDs returns the stored scenario ids in ascending order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.scenarios))
	for id := range s.scenarios {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// List returns copies of the stored scenarios ordered by id.
func (s *Store) List() []Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]Scenario, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		list = append(list, sc.Clone())
	}
	slices.SortFunc(list, func(a, b Scenario) int { return strings.Compare(a.ID, b.ID) })
	return list
}

var (
	scenePhotographs = EvidenceTemplate{ID: "e1", Label: "Scene Photographs", Category: "physical",
		Summary: "Probable evidence with stable integrity profile."}
	phoneRecords = EvidenceTemplate{ID: "e2", Label: "Phone Records", Category: "digital",
		Summary: "Uncertain evidence with partially contradictory integrity profile."}
	witnessStatement = EvidenceTemplate{ID: "e3", Label: "Witness Statement", Category: "testimonial",
		Summary: "Probable evidence with contradictory integrity profile."}
	bankTransfer = EvidenceTemplate{ID: "e4", Label: "Bank Transfer", Category: "circumstantial",
		Summary: "Uncertain evidence with stable integrity profile."}
)

// Builtin returns one scenario per crime type of the mock engine, limited to the evidence types each crime
// type allows.
func Builtin() []Scenario {
	return []Scenario{
		{
			ID:                    "murder",
			Name:                  "Murder",
			CrimeType:             "murder",
			DefaultPublicPressure: models.PressureCritical,
			AllowedEvidenceTypes:  []string{"physical", "digital", "testimonial", "circumstantial"},
			EvidenceTemplates:     []EvidenceTemplate{scenePhotographs, phoneRecords, witnessStatement, bankTransfer},
		},
		{
			ID:                    "fraud",
			Name:                  "Fraud",
			CrimeType:             "fraud",
			DefaultPublicPressure: models.PressureModerate,
			AllowedEvidenceTypes:  []string{"digital", "testimonial", "circumstantial"},
			EvidenceTemplates:     []EvidenceTemplate{phoneRecords, witnessStatement, bankTransfer},
		},
		{
			ID:                    "arson",
			Name:                  "Arson",
			CrimeType:             "arson",
			DefaultPublicPressure: models.PressureHigh,
			AllowedEvidenceTypes:  []string{"physical", "digital", "circumstantial"},
			EvidenceTemplates:     []EvidenceTemplate{scenePhotographs, phoneRecords, bankTransfer},
		},
		{
			ID:                    "hit_and_run",
			Name:                  "Hit and Run",
			CrimeType:             "hit_and_run",
			DefaultPublicPressure: models.PressureElevated,
			AllowedEvidenceTypes:  []string{"physical", "digital", "testimonial", "circumstantial"},
			EvidenceTemplates:     []EvidenceTemplate{scenePhotographs, phoneRecords, witnessStatement, bankTransfer},
		},
	}
}
