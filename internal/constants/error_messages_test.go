package constants_test

import (
	"net/http"
	"testing"

	"github.com/Behyna/hisabkitab/internal/constants"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, constants.GetHTTPStatus(constants.ErrCodeInvalidRequestBody))
	assert.Equal(t, http.StatusUnauthorized, constants.GetHTTPStatus(constants.ErrCodeUnauthorized))
	assert.Equal(t, http.StatusUnprocessableEntity, constants.GetHTTPStatus(constants.ErrCodeValidationFailed))
	assert.Equal(t, http.StatusOK, constants.GetHTTPStatus(constants.ErrCodeEntryNotFound))
	assert.Equal(t, http.StatusInternalServerError, constants.GetHTTPStatus(constants.ErrCodeOperationFailed))
	assert.Equal(t, http.StatusInternalServerError, constants.GetHTTPStatus("SOMETHING_ELSE"))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "not found", constants.GetErrorMessage(constants.ErrCodeEntryNotFound))
	assert.Equal(t, constants.ErrMsgInternalError, constants.GetErrorMessage("UNKNOWN"))
}
