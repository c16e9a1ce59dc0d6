package user

import (
	"errors"
	"fmt"
)

var (
	ErrNoUserInformation = errors.New("no user information")
)

type InvalidError struct {
	Email string
}

func (e InvalidError) Error() string {
	return fmt.Sprintf("empty field with email \"%s\"", e.Email)
}
