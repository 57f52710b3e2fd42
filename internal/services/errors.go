package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/validation"

	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
)

const (
	msgUnauthenticated  = "authentication credentials were not provided"
	msgInvalidToken     = "invalid token"
	msgBadCredentials   = "unable to log in with provided credentials"
	msgEmailTaken       = "user with this email already exists"
	msgUsernameTaken    = "user with this username already exists"
	msgWrongPassword    = "current_password: invalid password"
	msgStoreUnavailable = "file storage is temporarily unavailable"
)

func validationErr(op, msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
}

func notFoundErr(op, format string, args ...interface{}) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf(format, args...), nil)
}

func internalErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}
	return domainagg.NewError(domainagg.CodeInternal, op, "", err)
}

// requestValidationErr converts validator output into a validation error
// whose message lists every offending field.
func requestValidationErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return domainagg.NewError(domainagg.CodeValidation, op, verr.Error(), err)
	}
	return internalErr(op, err)
}

func requireViewer(ctx context.Context, op string) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if !rd.Authenticated() {
		return nil, domainagg.NewError(domainagg.CodeUnauthenticated, op, msgUnauthenticated, nil)
	}
	return rd, nil
}
