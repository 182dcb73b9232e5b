package user

import (
	"net/http"

	"github.com/tambo-labs/tambo/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeUserNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeDuplicateIdentity = ErrRegistry.Register("DUPLICATE_IDENTITY", errx.TypeConflict, http.StatusConflict, "Email or national ID already registered")
	CodeEmailNotVerified  = ErrRegistry.Register("EMAIL_NOT_VERIFIED", errx.TypeBusiness, http.StatusUnprocessableEntity, "Email address has not been verified")
	CodeInvalidInput      = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Invalid registration data")
	CodeDocumentStorage   = ErrRegistry.Register("DOCUMENT_STORAGE", errx.TypeExternal, http.StatusBadGateway, "Could not store identity document")
	CodeInvalidStatus     = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Unknown account status")
)

func ErrUserNotFound() *errx.Error      { return ErrRegistry.New(CodeUserNotFound) }
func ErrDuplicateIdentity() *errx.Error { return ErrRegistry.New(CodeDuplicateIdentity) }
func ErrEmailNotVerified() *errx.Error  { return ErrRegistry.New(CodeEmailNotVerified) }
func ErrInvalidInput() *errx.Error      { return ErrRegistry.New(CodeInvalidInput) }
func ErrDocumentStorage() *errx.Error   { return ErrRegistry.New(CodeDocumentStorage) }
func ErrInvalidStatus() *errx.Error     { return ErrRegistry.New(CodeInvalidStatus) }
