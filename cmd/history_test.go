package cmd

import (
	"os"
	"strings"
	"testing"
)

func TestShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"0f8fad5b-d9cb-469f-a165-70867728950e", "0f8fad5b"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := shortID(tt.id); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRunHistory_WithoutManifest(t *testing.T) {
	isolate(t)

	stdout, err := captureStdout(t, func() error { return runHistory(nil, nil) })
	if err != nil {
		t.Fatalf("runHistory: %v", err)
	}
	if !strings.Contains(stdout, "No renders recorded yet") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(manifestPath()); !os.IsNotExist(err) {
		t.Error("history created a manifest")
	}
}

func TestRunHistory_AfterCachedRender(t *testing.T) {
	isolate(t)
	flagCache = true
	flagLimit = 10

	if err := runRender(nil, nil); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	stdout, err := captureStdout(t, func() error { return runHistory(nil, nil) })
	if err != nil {
		t.Fatalf("runHistory: %v", err)
	}
	if !strings.Contains(stdout, "sprint_burndown_day5.png") {
		t.Errorf("history missing day 5 image:\n%s", stdout)
	}
	if !strings.Contains(stdout, "5 image(s)") {
		t.Errorf("history footer missing artifact count:\n%s", stdout)
	}
}
