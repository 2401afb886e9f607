package target

import (
	"fmt"
	"strings"
)

// StatusError reports a response outside the accepted status range.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Code, body)
}

// ContractError reports a successful response whose body lacks a field the
// contract expects.
type ContractError struct {
	Op     string
	Path   string
	Reason string
	Body   string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s at %q: %s", e.Op, e.Reason, e.Path, strings.TrimSpace(e.Body))
}
