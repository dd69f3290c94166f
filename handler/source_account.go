package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	mid "taskmate/middleware"
	"taskmate/model/model"
	"taskmate/model/store"
	AS "taskmate/task/assignment_sync"
	U "taskmate/util"
)

type ConnectSourceRequest struct {
	SourceType string `json:"source_type"`
	SourceName string `json:"source_name"`
	APIToken   string `json:"api_token"`
	BaseURL    string `json:"base_url"`
}

// Test command.
// curl -H "X-Owner-Id: u1" -i -X POST http://localhost:8080/sources -d '{"source_type": "Canvas", "source_name": "6.104 Canvas", "api_token": "token", "base_url": "https://canvas.instructure.com"}'
func ConnectSourceHandler(c *gin.Context) {
	ownerID := U.GetScopeByKeyAsString(c, mid.SCOPE_OWNER_ID)
	logCtx := log.WithField("owner", ownerID)

	var request ConnectSourceRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&request); err != nil {
		logCtx.WithError(err).Error("Connect source failed. Json decoding failed.")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "json decoding : " + err.Error()})
		return
	}

	if request.SourceType == "" || request.SourceName == "" ||
		request.APIToken == "" || request.BaseURL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	details := &model.ConnectionDetails{APIToken: request.APIToken, BaseURL: request.BaseURL}
	account, err := AS.ConnectSource(ownerID, request.SourceType, request.SourceName, details)
	if err != nil {
		c.AbortWithStatusJSON(syncErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, account)
}

func DisconnectSourceHandler(c *gin.Context) {
	account, errCode := getScopedSourceAccount(c)
	if errCode != http.StatusFound {
		c.AbortWithStatusJSON(errCode, gin.H{"error": "source account not found"})
		return
	}

	if err := AS.DisconnectSource(account.ID); err != nil {
		c.AbortWithStatusJSON(syncErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func GetSourcesHandler(c *gin.Context) {
	ownerID := U.GetScopeByKeyAsString(c, mid.SCOPE_OWNER_ID)

	accounts, errCode := store.GetStore().GetSourceAccountsByOwner(ownerID)
	if errCode != http.StatusFound {
		c.AbortWithStatusJSON(errCode, gin.H{"error": "failed to get sources"})
		return
	}

	// Connection details stay inside the subsystem; the entity never
	// serializes them.
	c.JSON(http.StatusOK, gin.H{"sources": accounts})
}
