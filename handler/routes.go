package handler

import (
	"github.com/gin-gonic/gin"

	mid "taskmate/middleware"
)

func InitRoutes(r *gin.Engine) {
	r.Use(mid.CustomCors())

	sources := r.Group("/sources", mid.SetScopeOwnerByHeader())
	sources.POST("", ConnectSourceHandler)
	sources.GET("", GetSourcesHandler)
	sources.DELETE("/:source_id", DisconnectSourceHandler)
	sources.POST("/:source_id/poll", PollSourceHandler)
	sources.POST("/:source_id/identify_changes", IdentifyChangesHandler)
	sources.POST("/:source_id/record_sync", RecordSyncHandler)
	sources.GET("/:source_id/mappings", GetMappingsHandler)
	sources.GET("/:source_id/mappings/:external_id", GetMappedInternalIDHandler)
}
