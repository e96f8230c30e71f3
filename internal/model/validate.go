package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared across calls; validator caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural shape of a document: status and theme
// enums, required ids, and the schedule tagged union (exactly one of
// range/point). Business-level consistency (parent/child links, id
// uniqueness across maps) is out of scope.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("document failed structural validation: %w", err)
	}

	// Map keys must agree with the embedded ids; validator tags cannot
	// express that relationship.
	for key, p := range d.Projects {
		if p.ID != key {
			return fmt.Errorf("project key %q does not match project id %q", key, p.ID)
		}
	}
	for key, t := range d.Tasks {
		if t.ID != key {
			return fmt.Errorf("task key %q does not match task id %q", key, t.ID)
		}
	}
	return nil
}
