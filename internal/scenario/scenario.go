// Package scenario holds named case configurations that the mock engine can generate cases from.
package scenario

import (
	"encoding/json"
	"fmt"
	"github.com/myrjola/dossier/internal/engine"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/models"
	"github.com/myrjola/dossier/internal/sanitize"
	"gopkg.in/yaml.v3"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	nameLimit     = 80
	labelLimit    = 80
	summaryLimit  = 220
	maxTemplates  = 8
	maxEvidenceID = 64
)

var (
	ErrInvalidID = errors.NewSentinel("scenario id must be 1 to 64 letters, digits, underscores or hyphens")
	ErrNotFound  = errors.NewSentinel("scenario not found")
	ErrInvalid   = errors.NewSentinel("invalid scenario")
)

var idShape = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidID reports whether id can name a scenario. Path separators, dots and whitespace are rejected.
func ValidID(id string) bool {
	return idShape.MatchString(id)
}

// ValidationError names the field that made a scenario invalid. It matches ErrInvalid.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid //nolint:errorlint // sentinel identity.
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// EvidenceTemplate is one opening evidence item of a scenario.
type EvidenceTemplate struct {
	ID       string `json:"id,omitempty"      yaml:"id,omitempty"`
	Label    string `json:"label"             yaml:"label"`
	Category string `json:"category"          yaml:"category"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Scenario configures the crime type, opening public pressure and opening evidence of generated cases.
//
// An empty AllowedEvidenceTypes accepts every category.
type Scenario struct {
	ID                    string             `json:"id"                               yaml:"id"`
	Name                  string             `json:"name"                             yaml:"name"`
	CrimeType             string             `json:"crime_type"                       yaml:"crime_type"`
	DefaultPublicPressure models.Pressure    `json:"default_public_pressure"          yaml:"default_public_pressure"`
	AllowedEvidenceTypes  []string           `json:"allowed_evidence_types,omitempty" yaml:"allowed_evidence_types,omitempty"`
	EvidenceTemplates     []EvidenceTemplate `json:"evidence_templates,omitempty"     yaml:"evidence_templates,omitempty"`
}

// Clone returns a copy of s that shares no memory with it.
func (s Scenario) Clone() Scenario {
	s.AllowedEvidenceTypes = slices.Clone(s.AllowedEvidenceTypes)
	s.EvidenceTemplates = slices.Clone(s.EvidenceTemplates)
	return s
}

// Normalize returns s with whitespace collapsed, tokens lower snake_cased and missing evidence ids filled
// in, or the first reason s cannot be used.
func (s Scenario) Normalize() (Scenario, error) {
	s = s.Clone()
	if !ValidID(s.ID) {
		return s, ErrInvalidID
	}

	s.Name = sanitize.ClampText(s.Name, "", nameLimit+1, false)
	if s.Name == "" {
		return s, invalid("name", "is required")
	}
	if utf8.RuneCountInString(s.Name) > nameLimit {
		return s, invalid("name", "must be at most %d characters", nameLimit)
	}

	var err error
	if s.CrimeType, err = token("crime_type", s.CrimeType); err != nil {
		return s, err
	}

	s.DefaultPublicPressure = models.Pressure(strings.ToLower(strings.TrimSpace(string(s.DefaultPublicPressure))))
	if !slices.Contains(models.PressureScale, s.DefaultPublicPressure) {
		return s, invalid("default_public_pressure", "must be one of %s", joinPressures(models.PressureScale))
	}

	allowed := make([]string, 0, len(s.AllowedEvidenceTypes))
	for _, raw := range s.AllowedEvidenceTypes {
		var category string
		if category, err = token("allowed_evidence_types", raw); err != nil {
			return s, err
		}
		if !slices.Contains(allowed, category) {
			allowed = append(allowed, category)
		}
	}
	s.AllowedEvidenceTypes = allowed

	if len(s.EvidenceTemplates) > maxTemplates {
		return s, invalid("evidence_templates", "at most %d items", maxTemplates)
	}
	seen := make(map[string]bool, len(s.EvidenceTemplates))
	for i := range s.EvidenceTemplates {
		if s.EvidenceTemplates[i], err = normalizeTemplate(s.EvidenceTemplates[i], i, allowed); err != nil {
			return s, err
		}
		id := s.EvidenceTemplates[i].ID
		if seen[id] {
			return s, invalid("evidence_templates", "duplicate id %q", id)
		}
		seen[id] = true
	}
	return s, nil
}

func normalizeTemplate(t EvidenceTemplate, i int, allowed []string) (EvidenceTemplate, error) {
	field := fmt.Sprintf("evidence_templates[%d]", i)
	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		t.ID = fmt.Sprintf("e%d", i+1)
	}
	if len(t.ID) > maxEvidenceID || strings.ContainsFunc(t.ID, func(r rune) bool { return r <= ' ' }) {
		return t, invalid(field, "id must be at most %d characters without whitespace", maxEvidenceID)
	}

	t.Label = sanitize.ClampText(t.Label, "", labelLimit+1, false)
	if t.Label == "" {
		return t, invalid(field, "label is required")
	}
	if utf8.RuneCountInString(t.Label) > labelLimit {
		return t, invalid(field, "label must be at most %d characters", labelLimit)
	}

	var err error
	if t.Category, err = token(field+".category", t.Category); err != nil {
		return t, err
	}
	if len(allowed) > 0 && !slices.Contains(allowed, t.Category) {
		return t, invalid(field, "category %q is not an allowed evidence type", t.Category)
	}

	summary := sanitize.ClampText(t.Summary, "", summaryLimit+1, true)
	switch {
	case summary == sanitize.Restricted:
		return t, invalid(field, "summary reveals restricted content")
	case utf8.RuneCountInString(summary) > summaryLimit:
		return t, invalid(field, "summary must be at most %d characters", summaryLimit)
	}
	t.Summary = summary
	return t, nil
}

// token reduces raw to a descriptor token, rejecting anything the sanitizer would not let through.
func token(field, raw string) (string, error) {
	t := sanitize.Descriptor(raw, "")
	if t == "" {
		return "", invalid(field, "%q must be letters, spaces, underscores or hyphens", raw)
	}
	return t, nil
}

func joinPressures(ps []models.Pressure) string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// Overrides turns s into the overrides of a generated case.
func (s Scenario) Overrides() engine.CaseOverrides {
	var evidence []models.EvidenceItem
	for _, t := range s.EvidenceTemplates {
		evidence = append(evidence, models.EvidenceItem{
			ID:       t.ID,
			Label:    t.Label,
			Category: t.Category,
			State:    models.EvidenceLogged,
			Summary:  t.Summary,
		})
	}
	return engine.CaseOverrides{
		CrimeType:      s.CrimeType,
		PublicPressure: s.DefaultPublicPressure,
		Evidence:       evidence,
	}
}

// LoadFile reads a list of scenarios from path. Files ending in .json are decoded as JSON, anything else
// as YAML. Every scenario is normalized.
func LoadFile(path string) ([]Scenario, error) {
	var (
		err       error
		b         []byte
		scenarios []Scenario
	)
	if b, err = os.ReadFile(path); err != nil {
		return nil, errors.Wrap(err, "read scenarios", slog.String("path", path))
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &scenarios)
	} else {
		err = yaml.Unmarshal(b, &scenarios)
	}
	if err != nil {
		return nil, errors.Wrap(err, "decode scenarios", slog.String("path", path))
	}
	for i := range scenarios {
		if scenarios[i], err = scenarios[i].Normalize(); err != nil {
			return nil, errors.Wrap(err, "normalize scenario", slog.String("path", path), slog.Int("index", i))
		}
	}
	return scenarios, nil
}
