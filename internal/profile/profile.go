// Package profile holds the client and project metadata printed on reports
// and persists it as a single snapshot.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ClientProfile is the customer and project a network is designed for.
type ClientProfile struct {
	IDType      string    `json:"type" yaml:"type" validate:"required,max=20"`
	ID          string    `json:"id" yaml:"id" validate:"required,max=40"`
	Name        string    `json:"name" yaml:"name" validate:"required,max=120"`
	Address     string    `json:"address" yaml:"address" validate:"required,max=200"`
	City        string    `json:"city" yaml:"city" validate:"required,max=80"`
	Department  string    `json:"department" yaml:"department" validate:"required,max=80"`
	Phone       string    `json:"phone" yaml:"phone" validate:"required,max=30"`
	Email       string    `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	ProjectType string    `json:"project_type" yaml:"project_type" validate:"required"`
	GasType     string    `json:"gas_type" yaml:"gas_type" validate:"required"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Identification returns "<type>: <id>" as shown on summaries.
func (p *ClientProfile) Identification() string {
	return p.IDType + ": " + p.ID
}

// EmailOr returns the email or fallback when none was given.
func (p *ClientProfile) EmailOr(fallback string) string {
	if p.Email == "" {
		return fallback
	}
	return p.Email
}

// Validate checks required fields and the email format.
func (p *ClientProfile) Validate() error {
	if p == nil {
		return errors.New("client profile cannot be nil")
	}
	if err := validate.Struct(p); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid client profile: %s", strings.Join(msgs, "; "))
}
