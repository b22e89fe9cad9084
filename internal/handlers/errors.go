// internal/handlers/errors.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mapstore/store-backend/internal/i18n"
	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/money"
	"github.com/mapstore/store-backend/internal/services"
	"github.com/mapstore/store-backend/internal/utils"
)

// respondError maps service errors onto the API envelope. Anything it does
// not recognise is logged and reported as a 500 without details.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var validationErrs validator.ValidationErrors
	var transitionErr *models.TransitionError

	switch {
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs))
	case errors.As(err, &transitionErr):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyOrderInvalidStatus, transitionErr.From, transitionErr.To))
	case errors.Is(err, services.ErrOrderChanged):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyOrderChanged))
	case errors.Is(err, models.ErrUnknownStatus):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), nil)
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "product")
	case errors.Is(err, services.ErrCategoryNotFound):
		utils.NotFoundResponse(c, "category")
	case errors.Is(err, services.ErrOrderNotFound):
		utils.NotFoundResponse(c, "order")
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, "user")
	case errors.Is(err, services.ErrNotificationNotFound):
		utils.NotFoundResponse(c, "notification")
	case errors.Is(err, services.ErrOrderForbidden):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyOrderForbidden))
	case errors.Is(err, services.ErrEmptyCart):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
	case errors.Is(err, services.ErrTotalMismatch):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderTotalMismatch), nil)
	case errors.Is(err, money.ErrInvalidAmount):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartInvalidPrice), nil)
	case errors.Is(err, services.ErrUserExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthUserExists))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrAccountHasOpenOrders):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyUserOpenOrders))
	case errors.Is(err, services.ErrAdminAccount):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyUserAdminProtected))
	case errors.Is(err, services.ErrInvalidUpload):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), err.Error())
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// decodeJSON only decodes the body. Handlers use it when fields filled in
// from the request context take part in validation, which then happens in
// the service.
func decodeJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

// bindJSON decodes the body into req and runs the validator. It writes the
// error response itself and reports whether the handler may continue.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return uuid.Nil, false
	}
	return id, true
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return 0, false
	}
	return uint(id), true
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := utils.GetUserUUIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return userID, ok
}
