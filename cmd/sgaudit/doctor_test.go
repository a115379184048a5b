package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/providers/aws/common"
)

// ── AWS mock ──────────────────────────────────────────────────────────────────

type mockAWSProvider struct {
	profileResult *common.ProfileConfig
	profileErr    error
	regionsResult []string
	regionsErr    error
	lastProfile   string // records the profile name passed to LoadProfile
}

func (m *mockAWSProvider) LoadProfile(_ context.Context, profile string) (*common.ProfileConfig, error) {
	m.lastProfile = profile
	return m.profileResult, m.profileErr
}

func (m *mockAWSProvider) GetActiveRegions(_ context.Context, _ *common.ProfileConfig) ([]string, error) {
	return m.regionsResult, m.regionsErr
}

func (m *mockAWSProvider) ConfigForRegion(_ *common.ProfileConfig, region string) aws.Config {
	return aws.Config{Region: region}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func goodMockAWS() *mockAWSProvider {
	return &mockAWSProvider{
		profileResult: &common.ProfileConfig{
			AccountID: "123456789012",
			CallerARN: "arn:aws:iam::123456789012:user/auditor",
			Region:    "us-east-1",
		},
		regionsResult: []string{"us-east-1", "eu-west-1"},
	}
}

// stubProfiles replaces profile discovery for the duration of the test.
func stubProfiles(t *testing.T, profiles []string, err error) {
	t.Helper()
	orig := discoverProfiles
	discoverProfiles = func() ([]string, error) { return profiles, err }
	t.Cleanup(func() { discoverProfiles = orig })
}

// runDoctorInTmp changes to a fresh temp directory (no sgaudit.yaml), runs
// runDoctor with the given format and profile, restores the working
// directory, and returns the captured output, the result and any rendering
// error.
func runDoctorInTmp(t *testing.T, awsP common.AWSClientProvider, format, profile string) (string, DoctorResult, error) {
	t.Helper()
	stubProfiles(t, nil, errors.New("no ~/.aws"))
	tmp := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	var buf bytes.Buffer
	result, runErr := runDoctor(context.Background(), awsP, &buf, format, profile, "sgaudit.yaml")
	return buf.String(), result, runErr
}

// runDoctorWithConfig writes body to a config file in a temp dir and runs
// runDoctor against it.
func runDoctorWithConfig(t *testing.T, body string) (string, DoctorResult) {
	t.Helper()
	stubProfiles(t, nil, nil)
	path := filepath.Join(t.TempDir(), "sgaudit.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	result, err := runDoctor(context.Background(), goodMockAWS(), &buf, "table", "", path)
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	return buf.String(), result
}

// ── table format tests ────────────────────────────────────────────────────────

func TestDoctorAllOK(t *testing.T) {
	out, result, err := runDoctorInTmp(t, goodMockAWS(), "table", "")
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if !result.OverallHealthy {
		t.Error("expected OverallHealthy=true")
	}
	for _, want := range []string{
		"Credentials: OK",
		"STS Identity: OK (Account: 123456789012)",
		"Caller: OK (arn:aws:iam::123456789012:user/auditor)",
		"Regions API: OK (2 active)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q;\ngot:\n%s", want, out)
		}
	}
}

func TestDoctorAWSCredentialsFail(t *testing.T) {
	awsP := &mockAWSProvider{profileErr: errors.New("no credentials configured")}
	out, result, err := runDoctorInTmp(t, awsP, "table", "")
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if result.OverallHealthy {
		t.Error("expected OverallHealthy=false")
	}
	if !strings.Contains(out, "Credentials: FAIL (no credentials configured)") {
		t.Errorf("expected 'Credentials: FAIL'; got:\n%s", out)
	}
	if !strings.Contains(out, "Regions API: FAIL (skipped)") {
		t.Errorf("expected regions check skipped; got:\n%s", out)
	}
}

func TestDoctorAWSRegionsFail(t *testing.T) {
	awsP := &mockAWSProvider{
		profileResult: &common.ProfileConfig{AccountID: "111111111111", Region: "us-east-1"},
		regionsErr:    errors.New("EC2 API error"),
	}
	out, result, err := runDoctorInTmp(t, awsP, "table", "")
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if result.OverallHealthy {
		t.Error("expected OverallHealthy=false")
	}
	if !strings.Contains(out, "Credentials: OK") {
		t.Errorf("expected 'Credentials: OK'; got:\n%s", out)
	}
	if !strings.Contains(out, "Regions API: FAIL (EC2 API error)") {
		t.Errorf("expected 'Regions API: FAIL'; got:\n%s", out)
	}
}

func TestDoctorProfilesListed(t *testing.T) {
	stubProfiles(t, []string{"default", "prod"}, nil)

	var buf bytes.Buffer
	result, err := runDoctor(context.Background(), goodMockAWS(), &buf, "table", "", filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if len(result.Profiles) != 2 {
		t.Errorf("got %d profiles; want 2", len(result.Profiles))
	}
	if !strings.Contains(buf.String(), "Profiles: found (default, prod)") {
		t.Errorf("expected profiles line; got:\n%s", buf.String())
	}
}

// ── config checks ─────────────────────────────────────────────────────────────

func TestDoctorConfigMissing(t *testing.T) {
	out, result, err := runDoctorInTmp(t, goodMockAWS(), "table", "")
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if !result.OverallHealthy {
		t.Error("expected OverallHealthy=true (missing config is not a failure)")
	}
	if !strings.Contains(out, "sgaudit.yaml present: Not found (optional)") {
		t.Errorf("expected 'Not found (optional)'; got:\n%s", out)
	}
}

func TestDoctorConfigValid(t *testing.T) {
	out, result := runDoctorWithConfig(t, "version: 1\nwhitelist:\n  - 203.0.113.0/24\nfail_on: [unsafe]\n")
	if !result.OverallHealthy {
		t.Errorf("expected OverallHealthy=true; errors: %v", result.Config.Errors)
	}
	if !strings.Contains(out, "present: YES") {
		t.Errorf("expected 'present: YES'; got:\n%s", out)
	}
	if !strings.Contains(out, "Config valid: OK") {
		t.Errorf("expected 'Config valid: OK'; got:\n%s", out)
	}
}

func TestDoctorConfigUnsupportedVersion(t *testing.T) {
	out, result := runDoctorWithConfig(t, "version: 99\n")
	if result.OverallHealthy {
		t.Error("expected OverallHealthy=false for invalid config")
	}
	if !strings.Contains(out, "Config valid: FAIL") {
		t.Errorf("expected 'Config valid: FAIL'; got:\n%s", out)
	}
}

func TestDoctorConfigSemanticErrors(t *testing.T) {
	body := "version: 1\n" +
		"whitelist:\n  - 10.0.0.1/16\n" +
		"collectors:\n  attachments:\n    lambda: true\n"
	_, result := runDoctorWithConfig(t, body)
	if result.OverallHealthy {
		t.Error("expected OverallHealthy=false")
	}
	if len(result.Config.Errors) != 2 {
		t.Fatalf("got %d errors; want 2: %v", len(result.Config.Errors), result.Config.Errors)
	}
	if !strings.Contains(result.Config.Errors[0], "use 10.0.0.0/16") {
		t.Errorf("got %q; want canonical CIDR hint", result.Config.Errors[0])
	}
	if !strings.Contains(result.Config.Errors[1], "lambda") {
		t.Errorf("got %q; want unknown collector error", result.Config.Errors[1])
	}
}

// ── JSON format tests ─────────────────────────────────────────────────────────

func TestDoctorJSON_AllOK(t *testing.T) {
	out, result, err := runDoctorInTmp(t, goodMockAWS(), "json", "")
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if !result.OverallHealthy {
		t.Error("expected OverallHealthy=true")
	}

	var parsed DoctorResult
	if jsonErr := json.Unmarshal([]byte(out), &parsed); jsonErr != nil {
		t.Fatalf("invalid JSON output: %v\nraw:\n%s", jsonErr, out)
	}
	if !parsed.AWS.Credentials {
		t.Error("expected AWS.Credentials=true")
	}
	if parsed.AWS.AccountID != "123456789012" {
		t.Errorf("expected AccountID=123456789012; got %q", parsed.AWS.AccountID)
	}
	if parsed.AWS.RegionCount != 2 {
		t.Errorf("expected RegionCount=2; got %d", parsed.AWS.RegionCount)
	}
	if parsed.Config.Present {
		t.Error("expected Config.Present=false")
	}
}

// TestDoctorJSON_Failure verifies that an unhealthy environment still yields
// (result, nil) and that the output is exactly one JSON document.
func TestDoctorJSON_Failure(t *testing.T) {
	awsP := &mockAWSProvider{profileErr: errors.New("no credentials configured")}
	out, result, err := runDoctorInTmp(t, awsP, "json", "")
	if err != nil {
		t.Fatalf("runDoctor must not return error for unhealthy result; got: %v", err)
	}
	if result.OverallHealthy {
		t.Error("expected OverallHealthy=false")
	}

	var parsed DoctorResult
	if jsonErr := json.Unmarshal([]byte(out), &parsed); jsonErr != nil {
		t.Fatalf("invalid JSON output: %v\nraw:\n%s", jsonErr, out)
	}
	if parsed.AWS.Error == "" {
		t.Error("expected AWS.Error to be non-empty")
	}

	want, _ := json.Marshal(result)
	if strings.TrimSpace(out) != string(want) {
		t.Errorf("JSON output has unexpected trailing content;\ngot:  %q\nwant: %q",
			strings.TrimSpace(out), string(want))
	}
}

func TestDoctorCmd_CobraCleanOutput(t *testing.T) {
	cmd := newDoctorCmd()
	if !cmd.SilenceErrors {
		t.Error("doctor command must have SilenceErrors=true")
	}
	if !cmd.SilenceUsage {
		t.Error("doctor command must have SilenceUsage=true")
	}
}

// ── profile flag tests ────────────────────────────────────────────────────────

func TestDoctorProfile_Success(t *testing.T) {
	awsP := &mockAWSProvider{
		profileResult: &common.ProfileConfig{AccountID: "999999999999", Region: "eu-west-1"},
		regionsResult: []string{"eu-west-1"},
	}
	out, result, err := runDoctorInTmp(t, awsP, "table", "prod")
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if !result.OverallHealthy {
		t.Error("expected OverallHealthy=true")
	}
	if result.AWS.Profile != "prod" {
		t.Errorf("expected AWS.Profile=prod; got %q", result.AWS.Profile)
	}
	if awsP.lastProfile != "prod" {
		t.Errorf("LoadProfile called with %q; want prod", awsP.lastProfile)
	}
	if !strings.Contains(out, "AWS (profile: prod):") {
		t.Errorf("expected profile heading in output; got:\n%s", out)
	}
}

func TestDoctorProfile_Failure(t *testing.T) {
	awsP := &mockAWSProvider{profileErr: errors.New("profile not found: prod")}
	out, result, err := runDoctorInTmp(t, awsP, "table", "prod")
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if result.OverallHealthy {
		t.Error("expected OverallHealthy=false")
	}
	if result.AWS.Profile != "prod" {
		t.Errorf("expected AWS.Profile=prod; got %q", result.AWS.Profile)
	}
	if !strings.Contains(out, "Credentials: FAIL") {
		t.Errorf("expected 'Credentials: FAIL'; got:\n%s", out)
	}
}
