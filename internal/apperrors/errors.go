// Package apperrors defines the failure kinds every service method can
// return. Each kind maps to exactly one HTTP status at the transport
// boundary; services never wrap or retry, a failure is terminal for the
// request.
package apperrors

import "fmt"

type Kind string

const (
	KindLogin             Kind = "login"
	KindAlreadyRegistered Kind = "already_registered"
	KindBadBody           Kind = "bad_body"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindWrongPassword     Kind = "wrong_password"
	KindNoEntityWithID    Kind = "no_entity_with_id"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is match on kind sentinels, e.g.
// errors.Is(err, apperrors.NewForbidden()).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func NewLogin() *Error {
	return &Error{Kind: KindLogin, Message: "Invalid email or password"}
}

func NewAlreadyRegistered() *Error {
	return &Error{Kind: KindAlreadyRegistered, Message: "User is already registered"}
}

func NewBadBody(message string) *Error {
	return &Error{Kind: KindBadBody, Message: message}
}

func NewUnauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
}

func NewForbidden() *Error {
	return &Error{Kind: KindForbidden, Message: "Forbidden"}
}

func NewWrongPassword() *Error {
	return &Error{Kind: KindWrongPassword, Message: "Wrong password"}
}

func NewNoEntityWithID(entity string) *Error {
	return &Error{Kind: KindNoEntityWithID, Message: entity + " with such id does not exist"}
}
