package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/gitid/internal/doctor"
	"github.com/rileyhilliard/gitid/internal/ui"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the identity environment setup",
	Long: `Run diagnostic checks on the local setup: required binaries, SSH agent
reachability, permission invariants on the SSH directory and managed
keys, and consistency between keys, Git fragments, include blocks, and
SSH config stanzas.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand()
	},
}

// DoctorOutput represents the JSON output for the doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand() error {
	paths, err := loadPaths()
	if err != nil {
		return err
	}

	checks := doctor.All(paths)
	results := doctor.RunAll(checks)

	if doctorJSON {
		return outputDoctorJSON(checks, results)
	}
	return outputDoctorText(checks, results)
}

// outputDoctorJSON outputs results in JSON format.
func outputDoctorJSON(checks []doctor.Check, results []doctor.CheckResult) error {
	grouped := make(map[string][]doctor.CheckResult)
	categoryOrder := []string{}

	for i, check := range checks {
		cat := check.Category()
		if _, exists := grouped[cat]; !exists {
			categoryOrder = append(categoryOrder, cat)
		}
		grouped[cat] = append(grouped[cat], results[i])
	}

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(categoryOrder)),
	}
	for _, cat := range categoryOrder {
		output.Categories = append(output.Categories, CategoryOutput{
			Name:    cat,
			Results: grouped[cat],
		})
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: counts[doctor.StatusWarn] == 0 && !doctor.HasFailures(results),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// outputDoctorText outputs results in human-readable format.
func outputDoctorText(checks []doctor.Check, results []doctor.CheckResult) error {
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Println()
	fmt.Println(headerStyle.Render("gitid Diagnostic Report"))
	fmt.Println()

	categoryOrder := []string{"TOOLS", "SSH", "GIT"}
	grouped := make(map[string][]int)
	for i, check := range checks {
		cat := check.Category()
		grouped[cat] = append(grouped[cat], i)
	}

	for _, category := range categoryOrder {
		indices, ok := grouped[category]
		if !ok || len(indices) == 0 {
			continue
		}

		fmt.Println(headerStyle.Render(category))
		for _, idx := range indices {
			renderCheckResult(results[idx])
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("━", 60))
	fmt.Println()

	counts := doctor.CountByStatus(results)
	issues := counts[doctor.StatusFail] + counts[doctor.StatusWarn]
	if issues == 0 {
		fmt.Println(ui.Pass("Everything looks good"))
	} else {
		fmt.Println(ui.Fail(fmt.Sprintf("%d issue%s found", issues, pluralSuffix(issues))))
	}

	fmt.Println()
	return nil
}

// renderCheckResult renders a single check result line with its suggestion.
func renderCheckResult(result doctor.CheckResult) {
	var line string
	switch result.Status {
	case doctor.StatusPass:
		line = ui.Pass(result.Message)
	case doctor.StatusWarn:
		line = ui.Warn(result.Message)
	case doctor.StatusFail:
		line = ui.Fail(result.Message)
	}

	fmt.Printf("  %s\n", line)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, l := range strings.Split(result.Suggestion, "\n") {
			fmt.Printf("    %s\n", ui.Muted(l))
		}
	}
}

// pluralSuffix returns "s" if n != 1.
func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
