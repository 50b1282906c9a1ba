package routers

import (
	"github.com/LaneAtlas/CycleMap/views"
	"github.com/gin-gonic/gin"
)

func RouteRouters(r *gin.Engine) {
	RouteController := views.NewRouteController()
	mapRouter := r.Group("/route")
	{
		mapRouter.GET("/GetRegions", RouteController.GetRegions)
		mapRouter.POST("/LoadRegion", RouteController.LoadRegion)
		mapRouter.GET("/GetRoutes", RouteController.GetRoutes)
		mapRouter.POST("/SaveRegion", RouteController.SaveRegion)
		mapRouter.POST("/DiscardChanges", RouteController.DiscardChanges)

		mapRouter.POST("/EditGeometry", RouteController.EditGeometry)
		mapRouter.POST("/CreateGeometry", RouteController.CreateGeometry)
		mapRouter.POST("/EditField", RouteController.EditField)
		mapRouter.POST("/DeleteRoute", RouteController.DeleteRoute)
		mapRouter.POST("/Undo", RouteController.Undo)

		mapRouter.GET("/GetChanges", RouteController.GetChanges)
		mapRouter.GET("/GetSuggestion", RouteController.GetSuggestion)
		mapRouter.GET("/FetchAllRegions", RouteController.FetchAllRegions)
	}
}
