package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
)

var (
	// Wrong login and wrong password are indistinguishable to the caller.
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid login or password",
	)

	ErrTokenIssueFailed = commonerrors.NewDomainError(
		"TOKEN_ISSUE_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"failed to issue token",
	)
)
