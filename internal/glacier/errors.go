package glacier

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ServiceError is a failure reported by the remote service itself.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error %s: %s", e.Code, e.Message)
}

// TransportError is any failure that did not come back as a service answer:
// connection problems, timeouts, credential resolution, cancelled contexts.
type TransportError struct {
	Kind    string
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error %s: %s", e.Kind, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Classify converts err into a *ServiceError or a *TransportError. A nil err
// stays nil and already classified errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &ServiceError{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage()}
	}

	return &TransportError{Kind: fmt.Sprintf("%T", rootCause(err)), Message: err.Error(), Err: err}
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
