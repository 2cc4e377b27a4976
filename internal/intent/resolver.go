// Package intent resolves free-text instructions to action ids.
package intent

import (
	"context"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/models"
	"log/slog"
	"slices"
	"strings"
	"unicode"
)

// Method records which rule resolved an instruction.
type Method string

const (
	MethodNone     Method = ""
	MethodExact    Method = "exact"
	MethodKeywords Method = "keywords"
	MethodLabel    Method = "label"
	MethodModel    Method = "model"
)

// Chooser picks an action for text when the fixed rules do not match. ai.Client implements it.
type Chooser interface {
	ChooseAction(ctx context.Context, text string, actions []models.ActionOption) (string, error)
}

// Resolution is the outcome of Resolve. ActionID is empty when nothing matched.
type Resolution struct {
	ActionID string
	Method   Method
}

func (r Resolution) Resolved() bool {
	return r.ActionID != ""
}

// Resolver maps free text to one of the offered actions.
type Resolver struct {
	chooser Chooser
	logger  *slog.Logger
}

// NewResolver creates a Resolver. chooser may be nil, in which case only the fixed rules apply.
func NewResolver(chooser Chooser, logger *slog.Logger) *Resolver {
	return &Resolver{
		chooser: chooser,
		logger:  logger,
	}
}

// Normalize trims, lower-cases, turns hyphens into underscores and collapses whitespace.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(strings.ToLower(text), "-", "_")), " ")
}

// Resolve applies the rules in order: an exact action id, then the first enabled action whose id words all
// appear in text, then the first enabled action whose label words all appear, and finally the chooser.
// Answers from the chooser are only accepted when they name an enabled action.
func (r *Resolver) Resolve(ctx context.Context, text string, actions []models.ActionOption) Resolution {
	normalized := Normalize(text)
	if normalized == "" {
		return Resolution{ActionID: "", Method: MethodNone}
	}

	underscored := strings.ReplaceAll(normalized, " ", "_")
	for _, a := range actions {
		if a.ID == normalized || a.ID == underscored {
			return Resolution{ActionID: a.ID, Method: MethodExact}
		}
	}

	enabled := slices.DeleteFunc(slices.Clone(actions), func(a models.ActionOption) bool { return !a.Enabled })
	words := strings.FieldsFunc(normalized, isSeparator)
	for _, a := range enabled {
		if containsAll(words, strings.FieldsFunc(strings.ToLower(a.ID), isSeparator)) {
			return Resolution{ActionID: a.ID, Method: MethodKeywords}
		}
	}
	for _, a := range enabled {
		if containsAll(words, strings.FieldsFunc(Normalize(a.Label), isSeparator)) {
			return Resolution{ActionID: a.ID, Method: MethodLabel}
		}
	}

	if r.chooser == nil || len(enabled) == 0 {
		return Resolution{ActionID: "", Method: MethodNone}
	}
	answer, err := r.chooser.ChooseAction(ctx, text, enabled)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "intent model unavailable", errors.SlogError(err))
		return Resolution{ActionID: "", Method: MethodNone}
	}
	answer = Normalize(answer)
	for _, a := range enabled {
		if a.ID == answer {
			return Resolution{ActionID: a.ID, Method: MethodModel}
		}
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "intent model answer rejected", slog.String("answer", answer))
	return Resolution{ActionID: "", Method: MethodNone}
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func containsAll(haystack, needles []string) bool {
	if len(needles) == 0 {
		return false
	}
	for _, n := range needles {
		if !slices.Contains(haystack, n) {
			return false
		}
	}
	return true
}
