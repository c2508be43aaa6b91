package httpserver

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type LoginRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identity, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Names    string `json:"names"`
	IsAdmin  bool   `json:"is_admin"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, validation.Length(1, 255), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 50)),
		validation.Field(&r.Names, validation.Length(0, 100)),
	)
}

// UpdateUserRequest uses pointers so an absent field and an empty field can
// be told apart.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Names    *string `json:"names"`
	IsAdmin  *bool   `json:"is_admin"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Length(1, 255), is.Email),
		validation.Field(&r.Password, validation.Length(6, 50)),
		validation.Field(&r.Names, validation.Length(0, 100)),
	)
}
