// Package client provides the Client catalog: the travelers and agencies the
// operator sells to.
package client

import (
	"context"
	"regexp"

	"tourops/internal/core/apperror"
	"tourops/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Client represents a booking customer.
type Client struct {
	entity.Catalog

	Country       *string `db:"country" json:"country,omitempty"`
	Phone         *string `db:"phone" json:"phone,omitempty"`
	Email         *string `db:"email" json:"email,omitempty"`
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`
	Notes         *string `db:"notes" json:"notes,omitempty"`
}

// NewClient creates a new Client with required fields.
func NewClient(code, name string) *Client {
	return &Client{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}
