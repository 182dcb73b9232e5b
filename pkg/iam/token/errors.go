package token

import (
	"net/http"

	"github.com/tambo-labs/tambo/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("TOKEN")

var (
	CodeEmptySubject   = ErrRegistry.Register("EMPTY_SUBJECT", errx.TypeValidation, http.StatusBadRequest, "Token subject must not be empty")
	CodeMalformedToken = ErrRegistry.Register("MALFORMED_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Malformed or unverifiable token")
	CodeSigningFailed  = ErrRegistry.Register("SIGNING_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token signing failed")
)

func ErrEmptySubject() *errx.Error   { return ErrRegistry.New(CodeEmptySubject) }
func ErrMalformedToken() *errx.Error { return ErrRegistry.New(CodeMalformedToken) }
func ErrSigningFailed() *errx.Error  { return ErrRegistry.New(CodeSigningFailed) }
