package domain

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
)

var (
	ErrProjectNotFound = commonerrors.NewDomainError(
		"PROJECT_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"project not found",
	)

	ErrGroupNotFound = commonerrors.NewDomainError(
		"GROUP_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"group not found",
	)

	ErrColumnNotFound = commonerrors.NewDomainError(
		"COLUMN_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"column not found",
	)

	ErrNotMember = commonerrors.NewDomainError(
		"NOT_PROJECT_MEMBER",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"access denied: not a project member",
	)

	ErrAssigneeNotMember = commonerrors.NewDomainError(
		"ASSIGNEE_NOT_MEMBER",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"assignedTo must be a project member",
	)

	// ErrVersionConflict is returned by conditional writes when the stored
	// version moved on since the aggregate was loaded.
	ErrVersionConflict = commonerrors.NewDomainError(
		"PROJECT_VERSION_CONFLICT",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"project was modified concurrently",
	)

	ErrWriteConflict = commonerrors.NewDomainError(
		"PROJECT_WRITE_CONFLICT",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"project is being modified by another request, try again",
	)
)
