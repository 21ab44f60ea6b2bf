package models

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	userNamePattern   = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	noSpacePattern    = regexp.MustCompile(`^\S*$`)
	minPasswordLength = 8
	maxUserNameLength = 255
)

// SignUpRequest is the transport-neutral input of sign-up.
type SignUpRequest struct {
	UserName        string
	Password        string
	PasswordConfirm string
	RegistrationKey string
	DeviceKey       string
}

// Validate checks field shapes; password confirmation is checked separately
// by the service so it can report a dedicated message.
func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserName,
			validation.Required.Error("username is required"),
			validation.Length(1, maxUserNameLength).Error("username is too long"),
			validation.Match(userNamePattern).Error("username can only contain letters and numbers"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(minPasswordLength, 0).Error("password must be at least 8 characters long"),
			validation.Match(noSpacePattern).Error("password cannot contain spaces"),
		),
		validation.Field(&r.PasswordConfirm, validation.Required.Error("password confirmation is required")),
		validation.Field(&r.RegistrationKey, validation.Required.Error("registration key is required")),
	)
}

// SignInRequest is the transport-neutral input of sign-in.
type SignInRequest struct {
	UserName  string
	Password  string
	DeviceKey string
}

func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserName, validation.Required.Error("username is required")),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}
