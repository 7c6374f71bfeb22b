package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/handler"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/middleware"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/config"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/logger"
	corsmiddleware "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/middleware/cors"
	reqidmiddleware "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/middleware/requestid"
)

func newRouter(cfg *config.Config, app *application, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(app.metrics))

	metricsHandler := handler.NewMetricsHandler(app.metrics, app.readyChecks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	offeringHandler := handler.NewOfferingHandler(app.offerings)
	marksHandler := handler.NewMarksHandler(app.marks, app.offerings)
	coMappingHandler := handler.NewCoMappingHandler(app.coMappings, app.offerings)
	attainmentHandler := handler.NewAttainmentHandler(app.attainment, app.offerings)
	exportHandler := handler.NewExportHandler(app.exports, app.offerings)

	api := r.Group(cfg.APIPrefix)
	// signed links are shared outside the app, the token is the credential
	api.GET("/export/:token", exportHandler.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(app.auth))
	writers := middleware.RequireRoles(models.RoleFaculty, models.RoleHOD, models.RoleAdmin)

	offerings := secured.Group("/offerings")
	offerings.GET("", offeringHandler.List)
	offerings.POST("", writers, offeringHandler.Create)
	offerings.GET("/:id", offeringHandler.Get)
	offerings.PUT("/:id/config", writers, offeringHandler.UpdateConfig)
	offerings.PUT("/:id/roster", writers, marksHandler.ImportRoster)
	offerings.GET("/:id/students/:rollNo", marksHandler.GetStudent)
	offerings.PUT("/:id/students/:rollNo/marks/:family", writers, marksHandler.UpsertMarks)
	offerings.GET("/:id/co-mapping", coMappingHandler.Get)
	offerings.PUT("/:id/co-mapping", writers, coMappingHandler.Upsert)
	offerings.POST("/:id/attainment/calculate", writers, attainmentHandler.Calculate)
	offerings.POST("/:id/attainment/recalculate", writers, attainmentHandler.Recalculate)
	offerings.GET("/:id/attainment", attainmentHandler.GetReport)
	offerings.GET("/:id/attainment/statistics", attainmentHandler.Statistics)
	offerings.GET("/:id/attainment/students/:rollNo", attainmentHandler.StudentAttainment)
	offerings.POST("/:id/attainment/export", writers, exportHandler.Export)

	secured.GET("/co-po-mappings", coMappingHandler.ListBySubject)
	secured.GET("/copomap", coMappingHandler.ListAll)

	return r
}
