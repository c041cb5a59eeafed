// internal/handlers/errors.go
package handlers

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stationeryhq/ledger/internal/i18n"
	"github.com/stationeryhq/ledger/internal/services"
	"github.com/stationeryhq/ledger/internal/utils"
)

// respondError maps a service error onto the response envelope.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		stockErr      *services.InsufficientStockError
		conflictErr   *services.ConflictError
		storageErr    *services.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.ValidationErrorResponse(c, validationErr.Fields)
	case errors.As(err, &notFoundErr):
		utils.NotFoundResponse(c, notFoundErr.Resource)
	case errors.As(err, &stockErr):
		utils.InsufficientStockResponse(c, stockErr.Available)
	case errors.As(err, &conflictErr):
		utils.ConflictResponse(c, conflictErr.Message)
	case errors.Is(err, services.ErrNotReady):
		utils.NotReadyResponse(c)
	case errors.As(err, &storageErr):
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Storage error")
		if services.IsRetriable(err) {
			c.Header("Retry-After", "1")
		}
		utils.StorageErrorResponse(c)
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled error")
		utils.InternalErrorResponse(c, "")
	}
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, param, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalidID, resource), nil)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body. Bodies that do not decode into the
// request type are validation failures like any other bad field.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ValidationErrorResponse(c, []utils.ValidationError{decodeError(err)})
		return false
	}
	return true
}

func decodeError(err error) utils.ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return utils.ValidationError{
			Field:   typeErr.Field,
			Tag:     "type",
			Message: typeErr.Field + " must be " + jsonKind(typeErr.Type),
		}
	}
	return utils.ValidationError{Field: "body", Tag: "json", Message: err.Error()}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "a non-negative whole number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "a whole number"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "true or false"
	default:
		return "a valid " + t.Name()
	}
}
