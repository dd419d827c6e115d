package cli

import (
	"errors"
	"fmt"
)

var errMissingProject = errors.New("missing --project (or set defaultProjectId via `planboard projects use <project-id>`)")

type confirmRequiredError struct {
	kind string
	id   string
}

func (e confirmRequiredError) Error() string {
	return fmt.Sprintf("refusing to delete %s %s without --yes", e.kind, e.id)
}

func errConfirmRequired(kind, id string) error {
	return confirmRequiredError{kind: kind, id: id}
}
