package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.Status(200) })

	v1 := r.Group("/v1")
	{
		v1.POST("/trips", handleCreateTrip)
		v1.GET("/orgs/:orgID/trips", handleListOrgTrips)
		v1.GET("/ws/:tripID", handleWS)
		v1.GET("/trips/:tripID", handleGetTrip)
		v1.POST("/trips/:tripID/status", handleUpdateStatus)
		v1.POST("/trips/:tripID/driver/location", handlePostDriverFix)
		v1.GET("/trips/:tripID/driver/location", handleGetDriverFix)
		v1.GET("/trips/:tripID/position", handleGetPosition)
	}
}
