// Package profile loads the user's body metrics used for coaching advice.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultAge      = 35
	DefaultWeightKg = 59.0
	DefaultHeightCm = 162.0
	DefaultGender   = "FEMALE"
)

// Profile is read once at startup and never mutated afterwards.
type Profile struct {
	Age      int     `json:"age"`
	WeightKg float64 `json:"weight"`
	HeightCm float64 `json:"height"`
	Gender   string  `json:"gender"`
}

// Default returns the documented fallback profile.
func Default() Profile {
	return Profile{
		Age:      DefaultAge,
		WeightKg: DefaultWeightKg,
		HeightCm: DefaultHeightCm,
		Gender:   DefaultGender,
	}
}

// Load reads a profile document. A missing file yields Default with no
// error. An unreadable or malformed file yields Default together with the
// error so callers can log it and carry on.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read profile %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a profile document, substituting defaults per field. Keys
// other than the profile fields (tokens, user ids) are ignored. A field with
// the wrong type keeps its default and is reported in the returned error
// while the remaining fields still apply.
func Parse(data []byte) (Profile, error) {
	p := Default()

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return p, fmt.Errorf("decode profile: %w", err)
	}

	var errs []error
	field := func(name string, dst any) bool {
		raw, ok := doc[name]
		if !ok || string(raw) == "null" {
			return false
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			errs = append(errs, fmt.Errorf("decode profile field %q: %w", name, err))
			return false
		}
		return true
	}

	var age int
	if field("age", &age) && age > 0 {
		p.Age = age
	}
	var weight float64
	if field("weight", &weight) && weight > 0 {
		p.WeightKg = weight
	}
	var height float64
	if field("height", &height) && height > 0 {
		p.HeightCm = height
	}
	var gender string
	if field("gender", &gender) && strings.TrimSpace(gender) != "" {
		p.Gender = strings.ToUpper(strings.TrimSpace(gender))
	}
	return p, errors.Join(errs...)
}

// String renders the profile line embedded in coaching prompts.
func (p Profile) String() string {
	return fmt.Sprintf("Age %d, Weight %skg, Height %scm, Gender %s",
		p.Age, formatNumber(p.WeightKg), formatNumber(p.HeightCm), p.Gender)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
