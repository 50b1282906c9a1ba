package main

import (
	"log"

	"github.com/LaneAtlas/CycleMap/config"
	"github.com/LaneAtlas/CycleMap/models"
	"github.com/LaneAtlas/CycleMap/routers"
	"github.com/gin-gonic/gin"
)

func main() {
	models.InitDatabase()

	r := gin.Default()
	routers.RouteRouters(r)

	log.Printf("服务启动: %s", config.MainRouter)
	if err := r.Run(config.MainRouter); err != nil {
		log.Fatalf("服务启动失败: %v", err)
	}
}
