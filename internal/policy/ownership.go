package policy

import "errors"

var ErrForbidden = errors.New("you are not the owner of this resource")

// RequireOwner runs after the resource has been loaded, so a missing resource
// is always reported as not-found before ownership is ever considered.
func RequireOwner(sender, subject string) error {
	if subject == "" || sender != subject {
		return ErrForbidden
	}
	return nil
}
