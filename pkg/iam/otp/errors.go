package otp

import (
	"net/http"

	"github.com/tambo-labs/tambo/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("OTP")

var (
	CodeInvalidEmail   = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "Malformed email address")
	CodeDeliveryFailed = ErrRegistry.Register("DELIVERY_FAILED", errx.TypeExternal, http.StatusBadGateway, "Could not deliver verification code")
)

func ErrInvalidEmail() *errx.Error   { return ErrRegistry.New(CodeInvalidEmail) }
func ErrDeliveryFailed() *errx.Error { return ErrRegistry.New(CodeDeliveryFailed) }
