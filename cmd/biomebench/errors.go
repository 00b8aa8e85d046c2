package main

import "go.uber.org/multierr"

// joinErrors combines zero or more flag validation errors into one,
// matching config.Validate's multierr convention.
func joinErrors(errs []error) error {
	return multierr.Combine(errs...)
}
