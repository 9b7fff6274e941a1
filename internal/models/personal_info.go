package models

import "fmt"

// PersonalInfo is the personal data captured by the enrollment wizard.
type PersonalInfo struct {
	FirstName  string `json:"first_name" validate:"required"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name" validate:"required"`
	Suffix     string `json:"suffix,omitempty"`
	BirthDay   int    `json:"birth_day" validate:"required,min=1,max=31"`
	BirthMonth int    `json:"birth_month" validate:"required,min=1,max=12"`
	BirthYear  int    `json:"birth_year" validate:"required,min=1900"`
	Gender     string `json:"gender" validate:"required,oneof=male female"`
	Phone      string `json:"phone" validate:"required,e164"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required"`
	Guardian   string `json:"guardian,omitempty"`
}

// FullName joins the name parts for display on slips and summaries.
func (p PersonalInfo) FullName() string {
	name := p.FirstName
	if p.MiddleName != "" {
		name = fmt.Sprintf("%s %s", name, p.MiddleName)
	}
	name = fmt.Sprintf("%s %s", name, p.LastName)
	if p.Suffix != "" {
		name = fmt.Sprintf("%s %s", name, p.Suffix)
	}
	return name
}
