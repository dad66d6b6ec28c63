// Package coaching builds the training-advice block added to readiness replies.
package coaching

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/janhq/health-assistant/internal/domain/profile"
)

// Rules holds the recovery thresholds and the advice checklist.
type Rules struct {
	SleepScoreThreshold int      `yaml:"sleep_score_threshold"`
	MinSleepHours       float64  `yaml:"min_sleep_hours"`
	Guidance            []string `yaml:"guidance"`
}

// DefaultRules recommends recovery below a sleep score of 70 or under 7h of sleep.
func DefaultRules() Rules {
	return Rules{
		SleepScoreThreshold: 70,
		MinSleepHours:       7,
		Guidance: []string{
			"Suggest a good training intensity (e.g., heavy, light, or rest day).",
			"Recommend a focus (e.g., recovery or volume).",
		},
	}
}

// LoadRules reads a YAML rules file. A missing file yields DefaultRules;
// keys absent from the file keep their defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if strings.TrimSpace(path) == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return rules, nil
	}
	if err != nil {
		return rules, fmt.Errorf("read coaching rules: %w", err)
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return DefaultRules(), fmt.Errorf("decode coaching rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return DefaultRules(), err
	}
	return rules, nil
}

// Validate rejects thresholds outside their natural ranges.
func (r Rules) Validate() error {
	if r.SleepScoreThreshold <= 0 || r.SleepScoreThreshold > 100 {
		return fmt.Errorf("sleep_score_threshold must be within 1..100, got %d", r.SleepScoreThreshold)
	}
	if r.MinSleepHours <= 0 || r.MinSleepHours > 24 {
		return fmt.Errorf("min_sleep_hours must be within (0, 24], got %v", r.MinSleepHours)
	}
	return nil
}

// Instruction renders the coaching block for p.
func (r Rules) Instruction(p profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "USER PROFILE: %s.\n", p)
	b.WriteString("Use the data and this profile information to provide specific, actionable training advice:\n")

	n := 1
	for _, g := range r.Guidance {
		if g = strings.TrimSpace(g); g == "" {
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n", n, g)
		n++
	}
	fmt.Fprintf(&b, "%d. If the most recent sleep score is below %d or total sleep is below %sh, recommend a strong emphasis on recovery; otherwise recommend a normal training load.",
		n, r.SleepScoreThreshold, strconv.FormatFloat(r.MinSleepHours, 'f', -1, 64))
	return b.String()
}

// NeedsRecovery applies the thresholds to one night of sleep.
// Unknown values never trigger recovery on their own.
func (r Rules) NeedsRecovery(score *int, totalSleepSeconds *int) bool {
	if score != nil && *score < r.SleepScoreThreshold {
		return true
	}
	if totalSleepSeconds != nil && float64(*totalSleepSeconds) < r.MinSleepHours*3600 {
		return true
	}
	return false
}
