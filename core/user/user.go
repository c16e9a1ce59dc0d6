package user

import (
	"context"
)

// User is the identity of a staff member interacting with the tool. It is
// resolved through a Provider and only used to stamp audit metadata; the
// authentication protocol itself lives outside this repository.
type User struct {
	Email    string `json:"email" diff:"email"`
	Provider string `json:"provider,omitempty" diff:"-"`
}

// Validate validates a user is valid or not
func (u *User) Validate() error {
	if u == nil {
		return ErrNoUserInformation
	}

	if u.Email == "" {
		return InvalidError{Email: u.Email}
	}

	return nil
}

// Provider resolves the currently signed-in identity. Implementations wrap
// whatever auth collaborator the deployment uses.
type Provider interface {
	CurrentUser(ctx context.Context) (User, error)
}

// StaticProvider returns a fixed identity. Used by the CLI where the
// operator identity comes from configuration rather than a sign-in flow.
type StaticProvider struct {
	usr User
}

func NewStaticProvider(email, provider string) *StaticProvider {
	return &StaticProvider{usr: User{Email: email, Provider: provider}}
}

func (p *StaticProvider) CurrentUser(ctx context.Context) (User, error) {
	if err := p.usr.Validate(); err != nil {
		return User{}, err
	}
	return p.usr, nil
}
