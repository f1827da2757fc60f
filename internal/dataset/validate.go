package dataset

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps every structural problem found in a master dataset.
var ErrInvalid = errors.New("invalid master dataset")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateBoundary, Boundary{})
	return v
}

// validateBoundary requires a real Coptic day/month on fixed boundaries.
func validateBoundary(sl validator.StructLevel) {
	b := sl.Current().Interface().(Boundary)
	if b.Type != BoundaryFixedCoptic {
		return
	}
	if b.Day < 1 {
		sl.ReportError(b.Day, "Day", "day", "required_for_fixed", "")
	}
	if b.Month < 1 {
		sl.ReportError(b.Month, "Month", "month", "required_for_fixed", "")
	}
	if b.Month == 13 && b.Day > 6 {
		sl.ReportError(b.Day, "Day", "day", "nasi_day", "")
	}
}

// Validate checks field constraints and the dataset's uniqueness invariants:
// feast codes are unique across fixed and movable sets, saint ids are unique.
func Validate(m *Master) error {
	errs := SchemaErrors(m)

	for _, code := range DuplicateFeastCodes(m) {
		errs = append(errs, fmt.Errorf("duplicate feast code %q", code))
	}
	for _, id := range DuplicateSaintIDs(m) {
		errs = append(errs, fmt.Errorf("duplicate saint id %q", id))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// SchemaErrors lists the field-level constraint violations, one per field.
func SchemaErrors(m *Master) []error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{err}
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return errs
}

// DuplicateFeastCodes lists feast codes defined more than once.
func DuplicateFeastCodes(m *Master) []string {
	codes := make([]string, 0, len(m.FixedFeasts)+len(m.MovableFeasts))
	for _, f := range m.FixedFeasts {
		codes = append(codes, f.Code)
	}
	for _, f := range m.MovableFeasts {
		codes = append(codes, f.Code)
	}
	return duplicates(codes)
}

// DuplicateSaintIDs lists saint ids defined more than once.
func DuplicateSaintIDs(m *Master) []string {
	ids := make([]string, 0, len(m.Saints))
	for _, s := range m.Saints {
		ids = append(ids, s.ID)
	}
	return duplicates(ids)
}

func duplicates(values []string) []string {
	seen := make(map[string]int, len(values))
	var out []string
	for _, v := range values {
		seen[v]++
		if seen[v] == 2 {
			out = append(out, v)
		}
	}
	return out
}
