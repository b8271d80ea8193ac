package zerror

import (
	"errors"
	"fmt"
)

// ZError is an application error with a stable code and a transport
// independent status. Predefined values are declared once and refined with
// WithMsg or WrapParent at the call site.
type ZError struct {
	parent error
	status Status
	code   string
	msg    string
}

// NewZError builds an error. code is upper snake case, e.g. CART_NOT_FOUND.
func NewZError(parent error, status Status, code, msg string) ZError {
	return ZError{
		parent: parent,
		status: status,
		code:   code,
		msg:    msg,
	}
}

func (e ZError) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("Code=%s, Msg=%s, Parent=(%v)", e.code, e.msg, e.parent)
	}
	return fmt.Sprintf("Code=%s, Msg=%s", e.code, e.msg)
}

// WrapParent attaches an underlying error to an existing predefined ZError.
func (e ZError) WrapParent(parent error) ZError {
	if parent == nil {
		return e
	}
	e.parent = parent
	return e
}

// WithMsg returns a copy of the error with a more specific message, keeping code and status.
// Used when the message comes from the backend or names the offending entity.
func (e ZError) WithMsg(msg string) ZError {
	e.msg = msg
	return e
}

func (e ZError) Unwrap() error {
	return e.parent
}

// Is reports whether target is a ZError with the same code, so predefined errors
// can be matched with errors.Is after WrapParent or WithMsg.
func (e ZError) Is(target error) bool {
	t, ok := target.(ZError)
	if !ok {
		return false
	}
	return e.code == t.code
}

func (e ZError) Status() Status {
	return e.status
}

func (e ZError) Code() string {
	return e.code
}

func (e ZError) Msg() string {
	return e.msg
}

// Parent returns the underlying error for the ZError.
func (e ZError) Parent() error {
	return e.parent
}

func NewUnauthorized(code, msg string) ZError {
	return NewZError(nil, StatusUnauthorized, code, msg)
}

func NewForbidden(code, msg string) ZError {
	return NewZError(nil, StatusForbidden, code, msg)
}

func NewNotFound(code, msg string) ZError {
	return NewZError(nil, StatusNotFound, code, msg)
}

func NewUnprocessableEntity(code, msg string) ZError {
	return NewZError(nil, StatusUnprocessableEntity, code, msg)
}

func NewConflict(code, msg string) ZError {
	return NewZError(nil, StatusConflict, code, msg)
}

func NewTooManyRequests(code, msg string) ZError {
	return NewZError(nil, StatusTooManyRequests, code, msg)
}

func NewBadRequest(code, msg string) ZError {
	return NewZError(nil, StatusBadRequest, code, msg)
}

func NewValidationFailed(code, msg string) ZError {
	return NewZError(nil, StatusValidationFailed, code, msg)
}

func NewInternalServerError(code, msg string) ZError {
	return NewZError(nil, StatusInternalServerError, code, msg)
}

func NewTimeout(code, msg string) ZError {
	return NewZError(nil, StatusTimeout, code, msg)
}

func NewNotImplemented(code, msg string) ZError {
	return NewZError(nil, StatusNotImplemented, code, msg)
}

func NewBadGateway(code, msg string) ZError {
	return NewZError(nil, StatusBadGateway, code, msg)
}

func NewServiceUnavailable(code, msg string) ZError {
	return NewZError(nil, StatusServiceUnavailable, code, msg)
}

// As finds the first ZError in err's chain.
func As(err error) (ZError, bool) {
	var zErr ZError
	ok := errors.As(err, &zErr)
	return zErr, ok
}
