package env

import (
	"reflect"
	"testing"

	"github.com/barlind/bleurgh/testutil"
)

func TestMapEnvironment(t *testing.T) {
	m := Map{
		"FASTLY_DEV_SERVICE_IDS": "svc-1",
		"FASTLY_API_TOKEN":       "tok",
		"PATH":                   "/usr/bin",
	}

	if got := m.Get("FASTLY_DEV_SERVICE_IDS"); got != "svc-1" {
		t.Errorf("Get() = %q, want %q", got, "svc-1")
	}
	if got := m.Get("MISSING"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}

	want := []string{"FASTLY_API_TOKEN", "FASTLY_DEV_SERVICE_IDS"}
	if got := m.KeysWithPrefix("FASTLY_"); !reflect.DeepEqual(got, want) {
		t.Errorf("KeysWithPrefix() = %v, want %v", got, want)
	}
}

func TestOSEnvironment(t *testing.T) {
	testutil.SetEnvMap(t, map[string]string{
		"BLEURGH_TEST_ALPHA": "a",
		"BLEURGH_TEST_BETA":  "b",
	})

	environ := OS()
	if got := environ.Get("BLEURGH_TEST_ALPHA"); got != "a" {
		t.Errorf("Get() = %q, want %q", got, "a")
	}

	keys := environ.KeysWithPrefix("BLEURGH_TEST_")
	want := []string{"BLEURGH_TEST_ALPHA", "BLEURGH_TEST_BETA"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("KeysWithPrefix() = %v, want %v", keys, want)
	}
}

func TestLookup(t *testing.T) {
	m := Map{"FASTLY_TOKEN": "legacy-tok"}

	key, val := Lookup(m, "FASTLY_API_TOKEN", "FASTLY_TOKEN", "FASTLY_KEY")
	if key != "FASTLY_TOKEN" || val != "legacy-tok" {
		t.Errorf("Lookup() = (%q, %q), want (FASTLY_TOKEN, legacy-tok)", key, val)
	}

	key, val = Lookup(m, "MISSING_ONE", "MISSING_TWO")
	if key != "" || val != "" {
		t.Errorf("Lookup(missing) = (%q, %q), want empty", key, val)
	}
}

func TestIsCredentialKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"FASTLY_API_TOKEN", true},
		{"FASTLY_TOKEN", true},
		{"FASTLY_KEY", true},
		{"FASTLY_SECRET", true},
		{"DB_PASSWORD", true},
		{"FASTLY_DEFAULT_PURGE_KEYS", false},
		{"FASTLY_DEV_SERVICE_IDS", false},
		{"FASTLY_SERVICE_NAMES", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsCredentialKey(tt.key); got != tt.want {
			t.Errorf("IsCredentialKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
