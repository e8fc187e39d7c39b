package filter

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/jobboard/internal/domain/models"
)

const OtherLocations = "Others"

var KnownLocations = []string{"HANOI", "HOCHIMINH", "DANANG"}

// Criteria is the set of optional filters a user selects on the search form.
// List values travel comma-joined in the URL, so they can't contain commas themselves.
type Criteria struct {
	Locations []string `validate:"dive,excludesall=0x2C"`
	Skills    []string `validate:"dive,excludesall=0x2C"`
	Levels    []models.Level
	MinSalary *int `validate:"omitempty,gte=0"`
	MaxSalary *int `validate:"omitempty,gte=0"`
}

var validate = validator.New()

func (c Criteria) IsEmpty() bool {
	return len(normalize(c.Locations)) == 0 &&
		len(normalize(c.Skills)) == 0 &&
		len(normalize(levelsToStrings(c.Levels))) == 0 &&
		c.MinSalary == nil &&
		c.MaxSalary == nil
}

// Validate checks that list values have no commas and salary bounds are non-negative.
// min <= max is left to the backend.
func (c Criteria) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid criteria: %w", err)
	}
	return nil
}

func Int(v int) *int {
	return &v
}
