package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mid "taskmate/middleware"
	"taskmate/model/model"
	"taskmate/model/store"
	U "taskmate/util"
)

// syncErrorStatus maps sync error values to response status codes.
func syncErrorStatus(err error) int {
	switch err {
	case model.ErrDuplicateSource:
		return http.StatusConflict
	case model.ErrInvalidCredentials, model.ErrSourceConnection:
		return http.StatusUnauthorized
	case model.ErrRateLimit:
		return http.StatusTooManyRequests
	case model.ErrNetwork:
		return http.StatusBadGateway
	case model.ErrSourceNotFound:
		return http.StatusNotFound
	case model.ErrUnsupportedSourceType:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getScopedSourceAccount resolves the :source_id param for the request
// owner. An account belonging to someone else reads as not found, so
// account ids never leak across owners.
func getScopedSourceAccount(c *gin.Context) (*model.SourceAccount, int) {
	ownerID := U.GetScopeByKeyAsString(c, mid.SCOPE_OWNER_ID)
	sourceAccountID := c.Params.ByName("source_id")
	if sourceAccountID == "" {
		return nil, http.StatusBadRequest
	}

	account, errCode := store.GetStore().GetSourceAccount(sourceAccountID)
	if errCode != http.StatusFound {
		return nil, errCode
	}

	if account.Owner != ownerID {
		return nil, http.StatusNotFound
	}

	return account, http.StatusFound
}
