package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// IconNames are the metric icons the front end knows how to draw.
var IconNames = []any{
	"Shield", "Zap", "Users", "Activity", "Clock",
	"File", "Package", "Layers", "Terminal", "Globe",
}

// Validate checks the personal info record.
func (p PersonalInfo) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Title, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Description, validation.Length(0, 2000)),
		validation.Field(&p.Email, validation.Required, is.EmailFormat),
		validation.Field(&p.Availability, validation.Length(0, 200)),
	)
}

// Validate checks a skill. The ID is not validated; the store owns it.
func (s Skill) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&s.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&s.Experience, validation.Length(0, 100)),
		validation.Field(&s.Projects, validation.Length(0, 100)),
		validation.Field(&s.Icon, validation.Length(0, 32)),
	)
}

// Validate checks a project metric.
func (m Metric) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Label, validation.Required),
		validation.Field(&m.Value, validation.Required),
		validation.Field(&m.Icon, validation.In(IconNames...)),
	)
}

// Validate checks a project and each of its metrics.
func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Required, validation.Length(1, 4000)),
		validation.Field(&p.Tech, validation.Each(validation.Required, validation.Length(1, 60))),
		validation.Field(&p.Metrics),
	)
}

// Validate checks an experience entry.
func (e Experience) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Company, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Period, validation.Required, validation.Length(1, 100)),
		validation.Field(&e.Achievements, validation.Each(validation.Required)),
	)
}
