package errors

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain  []string `json:"chain,omitempty"`
	Causes []string `json:"causes,omitempty"`
}

// Dump flattens an error chain for structured logging. Errors combined with
// multierr are listed individually under Causes.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	if combined := multierr.Errors(err); len(combined) > 1 {
		for _, cause := range combined {
			d.Causes = append(d.Causes, cause.Error())
		}
	}

	return d
}
