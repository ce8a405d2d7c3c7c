package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// cronParser accepts the six-field (with seconds) expressions the scheduler runs.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks struct tags, the cron expression and the time zone.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if _, err := cronParser.Parse(c.Schedule.DailyCron); err != nil {
		return errors.Wrapf(err, "schedule.daily_cron %q", c.Schedule.DailyCron)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Namespace(), e.Tag(), e.Value(),
		))
	}
	return errors.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}
