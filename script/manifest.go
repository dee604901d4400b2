package script

import (
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"
)

// Manifest is one decoded scope manifest: an ordered list of scope
// declarations followed by an ordered list of operations.
type Manifest struct {
	Scopes []Decl `yaml:"scopes"`
	Steps  []Step `yaml:"steps,omitempty"`
}

// Decl declares one scope. Parent, when set, must name a scope declared
// earlier in the manifest; declaration order therefore guarantees the
// parent relation is acyclic before the engine ever sees it. Bind holds
// initial bindings as expression source text, applied in name order.
type Decl struct {
	Bind     map[string]string `yaml:"bind,omitempty"`
	Name     string            `yaml:"name"`
	Parent   string            `yaml:"parent,omitempty"`
	Boundary bool              `yaml:"boundary,omitempty"`
}

// Step is one operation against the declared scopes. Exactly one of its
// fields must be set.
type Step struct {
	Set     *SetStep     `yaml:"set,omitempty"`
	Get     *GetStep     `yaml:"get,omitempty"`
	Merge   *MergeStep   `yaml:"merge,omitempty"`
	Closure *ClosureStep `yaml:"closure,omitempty"`
	Mark    *MarkStep    `yaml:"mark,omitempty"`
	Check   *CheckStep   `yaml:"check,omitempty"`
}

// SetStep stores the result of evaluating Expr into Scope under Name.
type SetStep struct {
	Scope string `yaml:"scope"`
	Name  string `yaml:"name"`
	Expr  string `yaml:"expr"`
}

// GetStep resolves Name from Scope through the chain and records the
// outcome. With Mutable set, the lookup goes through the engine's mutable
// path and records the access capability instead of failing outright when
// a read-only boundary intervenes.
type GetStep struct {
	Scope   string `yaml:"scope"`
	Name    string `yaml:"name"`
	Mutable bool   `yaml:"mutable,omitempty"`
}

// MergeStep folds From's local bindings into Into under the given clobber
// policy. Desc names the construct for collision diagnostics.
type MergeStep struct {
	From    string `yaml:"from"`
	Into    string `yaml:"into"`
	Desc    string `yaml:"desc,omitempty"`
	Clobber bool   `yaml:"clobber,omitempty"`
}

// ClosureStep captures Of's visible environment as a flattened closure and
// registers it under the scope name As.
type ClosureStep struct {
	Of string `yaml:"of"`
	As string `yaml:"as"`
}

// MarkStep marks Name used in Scope, or every local binding when All is
// set.
type MarkStep struct {
	Scope string `yaml:"scope"`
	Name  string `yaml:"name,omitempty"`
	All   bool   `yaml:"all,omitempty"`
}

// CheckStep runs the unused-binding check on Scope.
type CheckStep struct {
	Scope string `yaml:"scope"`
}

// Load decodes and validates a manifest.
func Load(r io.Reader) (*Manifest, error) {
	var m Manifest

	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, ErrManifestDecode.Wrap(err)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// LoadString decodes and validates a manifest from source text.
func LoadString(src string) (*Manifest, error) {
	var m Manifest

	if err := yaml.Unmarshal([]byte(src), &m); err != nil {
		return nil, ErrManifestDecode.Wrap(err)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Scopes) == 0 {
		return ErrNoScopes
	}

	declared := make(map[string]struct{}, len(m.Scopes))

	for _, d := range m.Scopes {
		if d.Name == "" {
			return ErrDuplicateScope.With(slog.String("name", ""))
		}

		if _, ok := declared[d.Name]; ok {
			return ErrDuplicateScope.With(slog.String("name", d.Name))
		}

		if d.Parent != "" {
			if _, ok := declared[d.Parent]; !ok {
				return ErrUnknownParent.With(
					slog.String("scope", d.Name),
					slog.String("parent", d.Parent),
				)
			}
		}

		declared[d.Name] = struct{}{}
	}

	for i := range m.Steps {
		if err := m.Steps[i].validate(i, declared); err != nil {
			return err
		}
	}

	return nil
}

// validate checks that exactly one operation is set and that every scope
// reference resolves. Closure steps register their result for later steps.
func (s *Step) validate(index int, declared map[string]struct{}) error {
	refs := make([]string, 0, 2)
	count := 0

	switch {
	case s.Set != nil:
		count++

		refs = append(refs, s.Set.Scope)
	case s.Get != nil:
		count++

		refs = append(refs, s.Get.Scope)
	case s.Merge != nil:
		count++

		refs = append(refs, s.Merge.From, s.Merge.Into)
	case s.Closure != nil:
		count++

		refs = append(refs, s.Closure.Of)
	case s.Mark != nil:
		count++

		refs = append(refs, s.Mark.Scope)
	case s.Check != nil:
		count++

		refs = append(refs, s.Check.Scope)
	}

	// A switch finds the first operation; catch any others directly.
	extra := 0
	for _, set := range []bool{
		s.Set != nil, s.Get != nil, s.Merge != nil,
		s.Closure != nil, s.Mark != nil, s.Check != nil,
	} {
		if set {
			extra++
		}
	}

	if count == 0 {
		return ErrEmptyStep.With(slog.Int("step", index))
	}

	if extra > 1 {
		return ErrAmbiguousStep.With(slog.Int("step", index))
	}

	for _, ref := range refs {
		if _, ok := declared[ref]; !ok {
			return ErrUnknownScope.With(
				slog.Int("step", index),
				slog.String("scope", ref),
			)
		}
	}

	if s.Closure != nil {
		if _, ok := declared[s.Closure.As]; ok || s.Closure.As == "" {
			return ErrDuplicateScope.With(
				slog.Int("step", index),
				slog.String("name", s.Closure.As),
			)
		}

		declared[s.Closure.As] = struct{}{}
	}

	return nil
}
