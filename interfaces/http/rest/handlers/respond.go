package handlers

import (
	"net/http"

	"familytree-backend/pkg/common"
	pkgerrors "familytree-backend/pkg/errors"
)

// respondAppError translates an error from the application layer to an
// HTTP response, honoring the status carried by AppError values.
func respondAppError(w http.ResponseWriter, err error) {
	appErr := pkgerrors.GetAppError(err)
	if appErr == nil {
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	code := appErr.Code
	if code == "" {
		code = string(appErr.Type)
	}
	common.RespondError(w, status, code, appErr.Message)
}
