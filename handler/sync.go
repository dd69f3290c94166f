package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"taskmate/model/model"
	"taskmate/model/store"
	AS "taskmate/task/assignment_sync"
)

func PollSourceHandler(c *gin.Context) {
	account, errCode := getScopedSourceAccount(c)
	if errCode != http.StatusFound {
		c.AbortWithStatusJSON(errCode, gin.H{"error": "source account not found"})
		return
	}

	rawAssignments, err := AS.PollSource(account.ID)
	if err != nil {
		c.AbortWithStatusJSON(syncErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"raw_external_assignments": rawAssignments})
}

type IdentifyChangesRequest struct {
	RawExternalAssignments []model.RawExternalAssignment `json:"raw_external_assignments"`
}

func IdentifyChangesHandler(c *gin.Context) {
	account, errCode := getScopedSourceAccount(c)
	if errCode != http.StatusFound {
		c.AbortWithStatusJSON(errCode, gin.H{"error": "source account not found"})
		return
	}

	var request IdentifyChangesRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&request); err != nil {
		log.WithError(err).Error("Identify changes failed. Json decoding failed.")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "json decoding : " + err.Error()})
		return
	}

	assignmentsToProcess, err := AS.IdentifyChanges(account.ID, request.RawExternalAssignments)
	if err != nil {
		c.AbortWithStatusJSON(syncErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments_to_process": assignmentsToProcess})
}

type RecordSyncRequest struct {
	ExternalID                    string `json:"external_id"`
	InternalTaskID                string `json:"internal_task_id"`
	ExternalModificationTimestamp int64  `json:"external_modification_timestamp"`
}

func RecordSyncHandler(c *gin.Context) {
	account, errCode := getScopedSourceAccount(c)
	if errCode != http.StatusFound {
		c.AbortWithStatusJSON(errCode, gin.H{"error": "source account not found"})
		return
	}

	var request RecordSyncRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&request); err != nil {
		log.WithError(err).Error("Record sync failed. Json decoding failed.")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "json decoding : " + err.Error()})
		return
	}

	if request.ExternalID == "" || request.InternalTaskID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	err := AS.RecordSync(account.ID, request.ExternalID, request.InternalTaskID,
		request.ExternalModificationTimestamp)
	if err != nil {
		c.AbortWithStatusJSON(syncErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func GetMappingsHandler(c *gin.Context) {
	account, errCode := getScopedSourceAccount(c)
	if errCode != http.StatusFound {
		c.AbortWithStatusJSON(errCode, gin.H{"error": "source account not found"})
		return
	}

	mappings, errCode := store.GetStore().GetAssignmentMappingsBySource(account.ID)
	if errCode != http.StatusFound {
		c.AbortWithStatusJSON(errCode, gin.H{"error": "failed to get mappings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mappings": mappings})
}

func GetMappedInternalIDHandler(c *gin.Context) {
	account, errCode := getScopedSourceAccount(c)
	if errCode != http.StatusFound {
		c.AbortWithStatusJSON(errCode, gin.H{"error": "source account not found"})
		return
	}

	externalID := c.Params.ByName("external_id")
	mapping, errCode := store.GetStore().GetAssignmentMapping(account.ID, externalID)
	if errCode != http.StatusFound {
		c.AbortWithStatusJSON(errCode, gin.H{"error": "mapping not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"internal_task_id": mapping.InternalTaskID})
}
