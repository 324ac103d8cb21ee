package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/pflag"
)

// feedbackFields holds form-bound values for the post-session form.
type feedbackFields struct {
	exertion     string
	cognitive    string
	balance      string
	coordination string
	notes        string
}

func newFeedbackFields(defaults domain.FeedbackRatings) *feedbackFields {
	return &feedbackFields{
		exertion:     strconv.Itoa(defaults.PerceivedExertion),
		cognitive:    strconv.Itoa(defaults.CognitiveLoad),
		balance:      strconv.Itoa(defaults.BalanceStability),
		coordination: strconv.Itoa(defaults.CoordinationRating),
	}
}

// ratings converts the form values. Values are expected to have passed
// validateRating already; anything else is reported with its field name.
func (f *feedbackFields) ratings() (domain.FeedbackRatings, error) {
	var r domain.FeedbackRatings
	fields := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"perceived_exertion", f.exertion, &r.PerceivedExertion},
		{"cognitive_load", f.cognitive, &r.CognitiveLoad},
		{"balance_stability", f.balance, &r.BalanceStability},
		{"coordination_rating", f.coordination, &r.CoordinationRating},
	}
	for _, fl := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(fl.raw))
		if err != nil {
			return domain.FeedbackRatings{}, domain.NewValidationError(fl.name, "%q is not a number", fl.raw)
		}
		*fl.dst = v
	}
	r.Notes = strings.TrimSpace(f.notes)
	return r, r.Validate()
}

// validateRating accepts an integer from 1 to 10.
func validateRating(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 || v > 10 {
		return fmt.Errorf("enter a number from 1 to 10")
	}
	return nil
}

func newFeedbackForm(f *feedbackFields) *huh.Form {
	rating := func(title, desc string, value *string) huh.Field {
		return huh.NewInput().
			Title(title).
			Description(desc).
			CharLimit(2).
			Value(value).
			Validate(validateRating)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("How did that feel?").
				Description("Rate each from 1 (very low) to 10 (very high)."),
			rating("Perceived exertion", "How hard did your body work?", &f.exertion),
			rating("Cognitive load", "How much did you have to concentrate?", &f.cognitive),
			rating("Balance stability", "How steady did you feel?", &f.balance),
			rating("Coordination", "How smooth were the movements?", &f.coordination),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Notes (optional)").
				CharLimit(500).
				Value(&f.notes),
		),
	).WithTheme(neurofitHuhTheme()).WithShowHelp(false)
}

// runFeedbackForm asks for ratings. ok is false when the user aborts.
func runFeedbackForm(ctx context.Context) (domain.FeedbackRatings, bool, error) {
	fields := newFeedbackFields(domain.DefaultFeedbackRatings())
	if err := newFeedbackForm(fields).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return domain.FeedbackRatings{}, false, nil
		}
		return domain.FeedbackRatings{}, false, fmt.Errorf("feedback form: %w", err)
	}
	r, err := fields.ratings()
	if err != nil {
		return domain.FeedbackRatings{}, false, err
	}
	return r, true, nil
}

// parseRatings reads "exertion,cognitive,balance,coordination[,notes]".
func parseRatings(s string) (domain.FeedbackRatings, error) {
	parts := strings.SplitN(s, ",", 5)
	if len(parts) < 4 {
		return domain.FeedbackRatings{}, domain.NewValidationError("ratings",
			"want exertion,cognitive,balance,coordination[,notes], got %q", s)
	}
	f := &feedbackFields{
		exertion:     parts[0],
		cognitive:    parts[1],
		balance:      parts[2],
		coordination: parts[3],
	}
	if len(parts) == 5 {
		f.notes = parts[4]
	}
	return f.ratings()
}

// ratingsValue parses --ratings as soon as the flag is set, so a bad value is
// rejected before the session starts.
type ratingsValue struct {
	ratings *domain.FeedbackRatings
}

var _ pflag.Value = (*ratingsValue)(nil)

func (v *ratingsValue) String() string {
	if v.ratings == nil {
		return ""
	}
	r := v.ratings
	return fmt.Sprintf("%d,%d,%d,%d", r.PerceivedExertion, r.CognitiveLoad, r.BalanceStability, r.CoordinationRating)
}

func (v *ratingsValue) Set(s string) error {
	r, err := parseRatings(s)
	if err != nil {
		return err
	}
	v.ratings = &r
	return nil
}

func (v *ratingsValue) Type() string { return "ratings" }
