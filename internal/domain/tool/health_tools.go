package tool

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"

	"github.com/janhq/health-assistant/internal/domain/health"
)

// SleepScoreInput is the argument shape of get_oura_sleep_score.
type SleepScoreInput struct {
	Day string `json:"day" jsonschema:"format=date,description=Calendar date in YYYY-MM-DD"`
}

// ActivityStepsInput is the argument shape of get_oura_activity_steps.
type ActivityStepsInput struct {
	Day string `json:"day" jsonschema:"format=date,description=Calendar date in YYYY-MM-DD"`
}

// LogGymSetInput is the argument shape of log_gym_set, in positional order.
type LogGymSetInput struct {
	Date      string  `json:"date_str" jsonschema:"format=date,description=Workout date in YYYY-MM-DD" validate:"required"`
	Exercise  string  `json:"exercise" jsonschema:"description=Exercise name" validate:"required"`
	Weight    float64 `json:"weight" jsonschema:"exclusiveMinimum=0,description=Weight in kilograms" validate:"gt=0"`
	Reps      int     `json:"reps" jsonschema:"exclusiveMinimum=0,description=Repetitions" validate:"gt=0"`
	SetNumber int     `json:"sets" jsonschema:"exclusiveMinimum=0,description=Set number" validate:"gt=0"`
}

// ReadinessInput is the argument shape of get_readiness_report.
type ReadinessInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"format=date"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"format=date"`
}

// HealthTools implements the assistant's tools on top of the fact store.
type HealthTools struct {
	store      health.Store
	validate   *validator.Validate
	now        func() time.Time
	windowDays int
}

// NewHealthTools builds the tool set. now defaults to time.Now and
// windowDays to 3.
func NewHealthTools(store health.Store, windowDays int, now func() time.Time) *HealthTools {
	if now == nil {
		now = time.Now
	}
	if windowDays <= 0 {
		windowDays = 3
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return &HealthTools{
		store:      store,
		validate:   validate,
		now:        now,
		windowDays: windowDays,
	}
}

// Descriptors returns the tool set in the order it is offered to the model.
func (t *HealthTools) Descriptors() []Descriptor {
	return []Descriptor{
		{
			Kind:        KindSleepScore,
			Description: "Retrieves the Oura sleep score and details for a specific date (YYYY-MM-DD).",
			Params:      []Param{{Name: "day", Type: ParamString}},
			Schema:      reflectSchema(&SleepScoreInput{}),
			Invoke:      t.sleepScore,
		},
		{
			Kind:        KindActivitySteps,
			Description: "Retrieves total steps and active calories for a specific date (YYYY-MM-DD).",
			Params:      []Param{{Name: "day", Type: ParamString}},
			Schema:      reflectSchema(&ActivityStepsInput{}),
			Invoke:      t.activitySteps,
		},
		{
			Kind: KindLogGymSet,
			Description: "Logs a single set of a gym workout. Input requires date (YYYY-MM-DD), exercise name (text), weight (float), repetitions (int), and set number (int).\n" +
				"Example: date_str='2025-10-25', exercise='Squat', weight=100.0, reps=5, sets=3",
			Params: []Param{
				{Name: "date_str", Type: ParamDate},
				{Name: "exercise", Type: ParamString},
				{Name: "weight", Type: ParamFloat},
				{Name: "reps", Type: ParamInt},
				{Name: "sets", Type: ParamInt},
			},
			Positional: true,
			Schema:     reflectSchema(&LogGymSetInput{}),
			Invoke:     t.logGymSet,
		},
		{
			Kind: KindReadinessReport,
			Description: "Gathers a summary of recent sleep, steps, and maximal lifts for training advice.\n" +
				"Automatically looks at the last 3 days if no dates are specified.",
			Params: []Param{
				{Name: "start_date", Type: ParamDate, Optional: true},
				{Name: "end_date", Type: ParamDate, Optional: true},
			},
			Schema: reflectSchema(&ReadinessInput{}),
			Invoke: t.readinessReport,
		},
	}
}

// Register adds every health tool to r.
func (t *HealthTools) Register(r *Registry) error {
	for _, d := range t.Descriptors() {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func reflectSchema(v any) *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	return reflector.Reflect(v)
}

func (t *HealthTools) sleepScore(ctx context.Context, args Args) (string, error) {
	raw := args.String("day")
	day, err := health.ParseDate(raw)
	if err != nil {
		return fmt.Sprintf("Could not read the sleep date: %v.", err), nil
	}

	rec, err := t.store.GetSleepByDay(ctx, day)
	if errors.Is(err, health.ErrNotFound) {
		return fmt.Sprintf("No Oura sleep data found for %s.", health.FormatDate(day)), nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch sleep data: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sleep data for %s:", health.FormatDate(day))
	fmt.Fprintf(&b, "\n- Score: %s", optInt(rec.Score))
	if rec.TotalSleepDuration != nil && *rec.TotalSleepDuration > 0 {
		h, m := health.SleepHours(*rec.TotalSleepDuration)
		fmt.Fprintf(&b, "\n- Total sleep: %dh %dm", h, m)
	}
	fmt.Fprintf(&b, "\n- Efficiency: %s%%", optInt(rec.Efficiency))
	return b.String(), nil
}

func (t *HealthTools) activitySteps(ctx context.Context, args Args) (string, error) {
	raw := args.String("day")
	day, err := health.ParseDate(raw)
	if err != nil {
		return fmt.Sprintf("Could not read the activity date: %v.", err), nil
	}

	rec, err := t.store.GetActivityByDay(ctx, day)
	if errors.Is(err, health.ErrNotFound) {
		return fmt.Sprintf("No activity data found for %s.", health.FormatDate(day)), nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch activity data: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Activity data for %s:", health.FormatDate(day))
	fmt.Fprintf(&b, "\n- Steps: %s", groupThousands(rec.Steps))
	fmt.Fprintf(&b, "\n- Active calories: %s", optInt(rec.ActiveCalories))
	fmt.Fprintf(&b, "\n- Activity score: %s", optInt(rec.Score))
	return b.String(), nil
}

func (t *HealthTools) logGymSet(ctx context.Context, args Args) (string, error) {
	date, _ := args.Date("date_str")
	in := LogGymSetInput{
		Date:      health.FormatDate(date),
		Exercise:  args.String("exercise"),
		Weight:    args.Float("weight"),
		Reps:      args.Int("reps"),
		SetNumber: args.Int("sets"),
	}
	if err := t.validate.Struct(in); err != nil {
		return "", toValidationError(KindLogGymSet.String(), err)
	}

	set := &health.WorkoutSet{
		WorkoutDate:  date,
		ExerciseName: in.Exercise,
		WeightKg:     in.Weight,
		Repetitions:  in.Reps,
		SetNumber:    in.SetNumber,
	}
	if err := t.store.UpsertWorkoutSet(ctx, set); err != nil {
		return "", fmt.Errorf("save workout set: %w", err)
	}

	return fmt.Sprintf("Successfully logged Set %d of %s (%skg x %d reps) for %s.",
		in.SetNumber, in.Exercise, FormatWeight(in.Weight), in.Reps, in.Date), nil
}

func toValidationError(toolName string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Tool: toolName, Field: "arguments", Detail: err.Error()}
	}
	fe := fieldErrs[0]
	detail := fmt.Sprintf("must be greater than 0, got %v", fe.Value())
	if fe.Tag() == "required" {
		detail = "must not be empty"
	}
	return &ValidationError{Tool: toolName, Field: fe.Field(), Detail: detail}
}

// FormatWeight renders kilograms with at least one decimal place.
func FormatWeight(w float64) string {
	s := strconv.FormatFloat(w, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func optInt(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}

// groupThousands renders n with comma separators.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
