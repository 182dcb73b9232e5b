package authapi

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// OTPRequestDTO asks for a verification code.
type OTPRequestDTO struct {
	Email string `json:"email"`
}

func (r OTPRequestDTO) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// OTPVerifyDTO submits a received code.
type OTPVerifyDTO struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r OTPVerifyDTO) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, is.Digit, validation.Length(4, 8)),
	)
}

// LoginDTO submits credentials.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginDTO) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterDTO carries the multipart form fields of a registration attempt.
// The document itself arrives as a file part, not a field.
type RegisterDTO struct {
	NationalID      string   `form:"national_id"`
	Name            string   `form:"name"`
	Email           string   `form:"email"`
	Phone           string   `form:"phone"`
	Password        string   `form:"password"`
	ConfirmPassword string   `form:"confirm_password"`
	Roles           []string `form:"roles"`
}

func (r RegisterDTO) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NationalID, validation.Required, validation.Length(6, 20)),
		validation.Field(&r.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Required, validation.Length(6, 20)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.ConfirmPassword, validation.Required),
		validation.Field(&r.Roles, validation.Required),
	)
}
