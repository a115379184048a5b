package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

var (
	knownSafe   = []string{"vpc", "subnet", "instance", "eip"}
	knownAttach = []string{"ec2", "rds", "elbv2", "eni"}
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ── Load ──────────────────────────────────────────────────────────────────────

func TestLoad_Success(t *testing.T) {
	path := writeFile(t, t.TempDir(), DefaultFileName, `
version: 1
profile: audit
regions: [us-east-1, eu-west-1]
whitelist:
  - 203.0.113.0/24
whitelist_files:
  - office.txt
collectors:
  safe_ranges:
    eip: false
  attachments:
    eni: false
fail_on: [unsafe]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Profile != "audit" {
		t.Errorf("Profile: got %q; want audit", cfg.Profile)
	}
	if len(cfg.Regions) != 2 {
		t.Errorf("Regions: got %v", cfg.Regions)
	}
	sel := cfg.Selection()
	if on, ok := sel.SafeRanges["eip"]; !ok || on {
		t.Errorf("expected eip disabled; got %v", sel.SafeRanges)
	}
	if on, ok := sel.Attachments["eni"]; !ok || on {
		t.Errorf("expected eni disabled; got %v", sel.Attachments)
	}
	if len(cfg.FailOn) != 1 || cfg.FailOn[0] != FailOnUnsafe {
		t.Errorf("FailOn: got %v", cfg.FailOn)
	}
}

func TestLoad_InvalidVersion(t *testing.T) {
	path := writeFile(t, t.TempDir(), DefaultFileName, "version: 2\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid version")
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), DefaultFileName, "version: 1\ncolectors: {}\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoad_EmptyFileIsDefault(t *testing.T) {
	path := writeFile(t, t.TempDir(), DefaultFileName, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version: got %d; want 1", cfg.Version)
	}
}

func TestLoadOptional(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultFileName)

	cfg, err := LoadOptional(missing, false)
	if err != nil {
		t.Fatalf("implicit missing file must not fail: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("expected default config; got %+v", cfg)
	}

	_, err = LoadOptional(missing, true)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("explicit missing file: expected ErrNotExist; got %v", err)
	}
}

// ── whitelist files ───────────────────────────────────────────────────────────

func TestLoadWhitelistFile_CommentsAndBlanks(t *testing.T) {
	path := writeFile(t, t.TempDir(), "wl.txt", `
# office egress
198.51.100.0/24

  10.8.0.0/16   # vpn
#192.0.2.0/24
`)
	got, err := LoadWhitelistFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"198.51.100.0/24", "10.8.0.0/16"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestManualWhitelist_MergesAllSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "office.txt", "198.51.100.0/24\n203.0.113.0/24\n")
	extra := writeFile(t, t.TempDir(), "vpn.txt", "10.8.0.0/16\n")
	cfgPath := writeFile(t, dir, DefaultFileName, "version: 1\nwhitelist: [203.0.113.0/24]\nwhitelist_files: [office.txt]\n")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := cfg.ManualWhitelist([]string{extra}, []string{" 192.0.2.0/24 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"203.0.113.0/24", "198.51.100.0/24", "10.8.0.0/16", "192.0.2.0/24"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestManualWhitelist_MissingFile(t *testing.T) {
	cfg := Default()
	if _, err := cfg.ManualWhitelist([]string{filepath.Join(t.TempDir(), "nope.txt")}, nil); err == nil {
		t.Fatal("expected error for missing whitelist file")
	}
}

// ── Validate ──────────────────────────────────────────────────────────────────

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Version:   1,
		Whitelist: []string{"10.0.0.0/8", "192.0.2.7/32", "2001:db8::/32"},
		Collectors: CollectorsConfig{
			SafeRanges:  map[string]bool{"eip": false},
			Attachments: map[string]bool{"rds": true},
		},
		FailOn: []string{"unused", "unsafe"},
	}
	if errs := Validate(cfg, knownSafe, knownAttach); len(errs) != 0 {
		t.Errorf("expected no errors; got %v", errs)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Version:   3,
		Whitelist: []string{"not-a-cidr", "10.0.0.1/16"},
		Collectors: CollectorsConfig{
			SafeRanges:  map[string]bool{"nat": true},
			Attachments: map[string]bool{"lambda": false},
		},
		FailOn: []string{"critical"},
	}
	errs := Validate(cfg, knownSafe, knownAttach)
	if len(errs) != 6 {
		t.Fatalf("expected 6 errors; got %d: %v", len(errs), errs)
	}
	joined := errors.Join(errs...).Error()
	for _, want := range []string{"version", "not-a-cidr", "use 10.0.0.0/16", "safe_ranges.nat", "attachments.lambda", `"critical"`} {
		if !strings.Contains(joined, want) {
			t.Errorf("errors missing %q:\n%s", want, joined)
		}
	}
}

func TestValidate_Nil(t *testing.T) {
	if errs := Validate(nil, knownSafe, knownAttach); len(errs) != 1 {
		t.Errorf("expected 1 error for nil config; got %v", errs)
	}
}

// ── ShouldFail ────────────────────────────────────────────────────────────────

func reportWith(unused, unsafe int) models.AnalysisReport {
	var r models.AnalysisReport
	for i := 0; i < unused; i++ {
		r.SecurityGroups.UnusedGroups = append(r.SecurityGroups.UnusedGroups, models.UnusedGroupFinding{GroupId: "sg-u"})
	}
	for i := 0; i < unsafe; i++ {
		r.SecurityGroups.UnsafeGroups = append(r.SecurityGroups.UnsafeGroups, models.UnsafeGroupFinding{GroupId: "sg-x"})
	}
	return r
}

func TestShouldFail(t *testing.T) {
	cases := []struct {
		name    string
		cfg     *Config
		reports []models.AnalysisReport
		want    bool
	}{
		{"nil config", nil, []models.AnalysisReport{reportWith(1, 1)}, false},
		{"no fail_on", &Config{}, []models.AnalysisReport{reportWith(1, 1)}, false},
		{"unsafe configured, only unused found", &Config{FailOn: []string{"unsafe"}}, []models.AnalysisReport{reportWith(2, 0)}, false},
		{"unsafe configured and found", &Config{FailOn: []string{"unsafe"}}, []models.AnalysisReport{reportWith(0, 0), reportWith(0, 1)}, true},
		{"unused configured and found", &Config{FailOn: []string{"unused"}}, []models.AnalysisReport{reportWith(1, 0)}, true},
		{"unknown value ignored", &Config{FailOn: []string{"bogus"}}, []models.AnalysisReport{reportWith(1, 1)}, false},
		{"no reports", &Config{FailOn: []string{"unused", "unsafe"}}, nil, false},
	}
	for _, tc := range cases {
		if got := ShouldFail(tc.reports, tc.cfg); got != tc.want {
			t.Errorf("%s: got %v; want %v", tc.name, got, tc.want)
		}
	}
}
