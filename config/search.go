package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"job-aggregator/models"
)

// ErrInvalidSearch is returned when a search configuration cannot be run.
var ErrInvalidSearch = errors.New("invalid search configuration")

// SearchConfig is the document persisted in the config store between
// sessions. It is written verbatim on every submission.
type SearchConfig struct {
	Locations      []string `json:"locations" yaml:"locations" validate:"required,min=1,dive,required"`
	FinanceJobs    []string `json:"finance_jobs" yaml:"finance_jobs" validate:"required,min=1,dive,required"`
	BAISJobs       []string `json:"bais_jobs" yaml:"bais_jobs" validate:"required,min=1,dive,required"`
	AccountingJobs []string `json:"accounting_jobs" yaml:"accounting_jobs" validate:"required,min=1,dive,required"`
}

// RunOptions are the per-run knobs that are not persisted.
type RunOptions struct {
	DaysOld int `validate:"min=1,max=90"`
	MaxJobs int `validate:"min=1,max=50"`
}

// Terms returns the query terms of a category.
func (s SearchConfig) Terms(c models.Category) []string {
	switch c {
	case models.CategoryFinance:
		return s.FinanceJobs
	case models.CategoryBAIS:
		return s.BAISJobs
	case models.CategoryAccounting:
		return s.AccountingJobs
	default:
		return nil
	}
}

// TotalFetchJobs is the number of (term, location) pairs a run issues across
// all categories.
func (s SearchConfig) TotalFetchJobs() int {
	terms := 0
	for _, c := range models.Categories {
		terms += len(s.Terms(c))
	}
	return terms * len(s.Locations)
}

// Normalized trims every entry and drops the empty ones.
func (s SearchConfig) Normalized() SearchConfig {
	return SearchConfig{
		Locations:      trimList(s.Locations),
		FinanceJobs:    trimList(s.FinanceJobs),
		BAISJobs:       trimList(s.BAISJobs),
		AccountingJobs: trimList(s.AccountingJobs),
	}
}

// Validate checks that every list has at least one non-blank entry.
func (s SearchConfig) Validate() error {
	return validateStruct(s.Normalized())
}

// Validate checks the run option ranges.
func (o RunOptions) Validate() error {
	return validateStruct(o)
}

// ParseList splits comma separated user input into trimmed, non-empty items.
func ParseList(s string) []string {
	return trimList(strings.Split(s, ","))
}

// JoinList renders a list the way ParseList reads it back.
func JoinList(xs []string) string {
	return strings.Join(xs, ", ")
}

func trimList(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		out = append(out, x)
	}
	return out
}

func validateStruct(v any) error {
	validate := validator.New()
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSearch, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (param %q)", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("%w:\n- %s", ErrInvalidSearch, strings.Join(msgs, "\n- "))
}
