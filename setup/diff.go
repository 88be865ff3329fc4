package setup

import "github.com/barlind/bleurgh/env"

// Change records a key whose live value differs from the proposed one.
type Change struct {
	Key string `json:"key" yaml:"key"`
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`
}

// Diff partitions the entries of a proposed configuration against live
// environment state. Every proposed key with a non-empty value lands in
// exactly one of NewVars, ChangedVars or UnchangedVars. ExistingVars lists
// the namespace keys already set in the environment, for information only;
// credential-shaped keys are excluded from it since credentials are never
// part of a portable configuration and must never be echoed.
type Diff struct {
	ExistingVars  []string `json:"existingVars,omitempty" yaml:"existingVars,omitempty"`
	NewVars       []string `json:"newVars,omitempty" yaml:"newVars,omitempty"`
	ChangedVars   []Change `json:"changedVars,omitempty" yaml:"changedVars,omitempty"`
	UnchangedVars []string `json:"unchangedVars,omitempty" yaml:"unchangedVars,omitempty"`
}

// HasChanges reports whether any proposed entry conflicts with a different
// live value.
func (d Diff) HasChanges() bool {
	return len(d.ChangedVars) > 0
}

// Analyze compares the proposed configuration against the live environment.
// It is a pure read-only comparison; the environment is never mutated.
func Analyze(proposed Configuration, environ env.Environment) Diff {
	diff := Diff{}

	for _, key := range environ.KeysWithPrefix(Prefix) {
		if env.IsCredentialKey(key) {
			continue
		}
		diff.ExistingVars = append(diff.ExistingVars, key)
	}

	for _, key := range proposed.Keys() {
		value := proposed[key]
		if value == "" {
			continue
		}

		live := environ.Get(key)
		switch {
		case live == "":
			diff.NewVars = append(diff.NewVars, key)
		case live != value:
			diff.ChangedVars = append(diff.ChangedVars, Change{Key: key, Old: live, New: value})
		default:
			diff.UnchangedVars = append(diff.UnchangedVars, key)
		}
	}

	return diff
}
