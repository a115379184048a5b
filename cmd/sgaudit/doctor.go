package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/collectors"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/config"
	"github.com/pankaj-dahiya-devops/sg-audit/internal/providers/aws/common"
)

// discoverProfiles lists the named profiles in ~/.aws. Tests replace it.
var discoverProfiles = common.DiscoverProfiles

// DoctorResult is the structured output of sgaudit doctor. It can be
// serialised to JSON via --format=json or rendered as a table (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		CallerARN   string `json:"caller_arn,omitempty"`
		RegionsOK   bool   `json:"regions_ok"`
		RegionCount int    `json:"region_count,omitempty"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	Profiles []string `json:"profiles,omitempty"`

	Config struct {
		Path    string   `json:"path"`
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"config"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Check AWS credentials and the sgaudit config file",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			profile, _ := cmd.Flags().GetString("profile")
			configPath, _ := cmd.Flags().GetString("config")
			result, err := runDoctor(
				cmd.Context(),
				common.NewDefaultAWSClientProvider(),
				cmd.OutOrStdout(),
				format,
				profile,
				configPath,
			)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text follows the rendered result.
				os.Exit(exitFatal)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	cmd.Flags().String("profile", "", "AWS profile to use (default: credential chain)")
	cmd.Flags().String("config", config.DefaultFileName, "Path to the config file")
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result. The returned error covers only
// rendering failures; an unhealthy environment is reported through
// result.OverallHealthy.
func runDoctor(ctx context.Context, awsProvider common.AWSClientProvider, w io.Writer, format, profile, configPath string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, awsProvider, profile, configPath)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
func collectDoctorResult(ctx context.Context, awsProvider common.AWSClientProvider, profile, configPath string) DoctorResult {
	var result DoctorResult

	// AWS: credentials, then STS identity, then region discovery.
	result.AWS.Profile = profile
	profileCfg, err := awsProvider.LoadProfile(ctx, profile)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID
		result.AWS.CallerARN = profileCfg.CallerARN
		regions, err := awsProvider.GetActiveRegions(ctx, profileCfg)
		if err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.RegionsOK = true
			result.AWS.RegionCount = len(regions)
		}
	}

	// Profile discovery is informational; a missing ~/.aws is not a failure.
	if profiles, err := discoverProfiles(); err == nil {
		result.Profiles = profiles
	}

	// Config: stat, load, validate. The file is optional.
	result.Config.Path = configPath
	_, statErr := os.Stat(configPath)
	if statErr == nil {
		result.Config.Present = true
		cfg, loadErr := config.Load(configPath)
		if loadErr != nil {
			result.Config.Errors = []string{loadErr.Error()}
		} else {
			reg := collectors.Default()
			errs := config.Validate(cfg, reg.SafeRangeNames(), reg.AttachmentNames())
			if len(errs) == 0 {
				result.Config.Valid = true
			}
			for _, e := range errs {
				result.Config.Errors = append(result.Config.Errors, e.Error())
			}
		}
	} else if !os.IsNotExist(statErr) {
		result.Config.Present = true
		result.Config.Errors = []string{statErr.Error()}
	}

	result.OverallHealthy = result.AWS.Credentials &&
		result.AWS.RegionsOK &&
		(!result.Config.Present || result.Config.Valid)

	return result
}

// renderDoctorTable writes the human-readable diagnostic output to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
		doctorPrint(w, "Regions API", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		if result.AWS.CallerARN != "" {
			doctorPrint(w, "Caller", "OK", result.AWS.CallerARN)
		}
		if result.AWS.RegionsOK {
			doctorPrint(w, "Regions API", "OK", fmt.Sprintf("%d active", result.AWS.RegionCount))
		} else {
			doctorPrint(w, "Regions API", "FAIL", result.AWS.Error)
		}
	}

	if len(result.Profiles) > 0 {
		doctorPrint(w, "Profiles", "found", strings.Join(result.Profiles, ", "))
	}

	fmt.Fprintln(w, "\nConfig:")
	label := result.Config.Path + " present"
	if !result.Config.Present {
		doctorPrint(w, label, "Not found (optional)", "")
		return
	}
	doctorPrint(w, label, "YES", "")
	if result.Config.Valid {
		doctorPrint(w, "Config valid", "OK", "")
		return
	}
	for _, e := range result.Config.Errors {
		doctorPrint(w, "Config valid", "FAIL", e)
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
