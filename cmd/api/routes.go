package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"daruyab/config"
	"daruyab/internal/api/handlers"
	"daruyab/internal/api/middleware"
)

// requestLogExcludePaths are API paths that never produce request log rows.
var requestLogExcludePaths = []string{
	"/api/swagger/",
	"/api/redoc/",
}

func setupRouter(cfg config.Config, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(logger, cfg.RateLimit.Rate))
	r.Use(middleware.OptionalAuth(db, []byte(cfg.Auth.Secret)))
	r.Use(middleware.RequestLog(logger, &middleware.GormRequestRecorder{DB: db}, requestLogExcludePaths))

	r.Static("/media", cfg.Media.Root)

	auth := handlers.NewAuthHandler(db, rdb, logger, cfg.Auth)
	locations := handlers.NewLocationHandler(db, logger)
	manufacturers := handlers.NewManufacturerHandler(db, logger)
	drugs := handlers.NewDrugHandler(db, logger, cfg.Media.Root)
	pharmacies := handlers.NewPharmacyHandler(db, logger, cfg.Media.Root)
	inventory := handlers.NewInventoryHandler(db, logger)
	users := handlers.NewUserHandler(db, logger)
	searchLogs := handlers.NewSearchLogHandler(db, logger)

	api := r.Group("/api")
	{
		api.POST("/token/", auth.Token)
		api.POST("/token/refresh/", auth.Refresh)
		api.POST("/logout/", middleware.RequireAuth(), auth.Logout)

		// Reads are public; writes require an authenticated caller.
		registerCRUD(api, "locations", crudHandlers{
			list: locations.List, retrieve: locations.Retrieve, create: locations.Create,
			update: locations.Update, partialUpdate: locations.PartialUpdate, delete: locations.Delete,
		})
		registerCRUD(api, "manufacturers", crudHandlers{
			list: manufacturers.List, retrieve: manufacturers.Retrieve, create: manufacturers.Create,
			update: manufacturers.Update, partialUpdate: manufacturers.PartialUpdate, delete: manufacturers.Delete,
		})
		registerCRUD(api, "drugs", crudHandlers{
			list: drugs.List, retrieve: drugs.Retrieve, create: drugs.Create,
			update: drugs.Update, partialUpdate: drugs.PartialUpdate, delete: drugs.Delete,
		})
		api.PUT("/drugs/:id/image/", middleware.RequireAuth(), drugs.UploadImage)
		api.DELETE("/drugs/:id/image/", middleware.RequireAuth(), drugs.DeleteImage)

		registerCRUD(api, "pharmacies", crudHandlers{
			list: pharmacies.List, retrieve: pharmacies.Retrieve, create: pharmacies.Create,
			update: pharmacies.Update, partialUpdate: pharmacies.PartialUpdate, delete: pharmacies.Delete,
		})
		api.PUT("/pharmacies/:id/image/", middleware.RequireAuth(), pharmacies.UploadImage)
		api.DELETE("/pharmacies/:id/image/", middleware.RequireAuth(), pharmacies.DeleteImage)

		registerCRUD(api, "inventory", crudHandlers{
			list: inventory.List, retrieve: inventory.Retrieve, create: inventory.Create,
			update: inventory.Update, partialUpdate: inventory.PartialUpdate, delete: inventory.Delete,
		})

		admin := api.Group("", middleware.RequireAdmin())
		{
			admin.GET("/users/", users.List)
			admin.POST("/users/", users.Create)
			admin.GET("/users/:id/", users.Retrieve)
			admin.PUT("/users/:id/", users.Update)
			admin.PATCH("/users/:id/", users.PartialUpdate)
			admin.DELETE("/users/:id/", users.Delete)

			admin.GET("/inventory-search-logs/", searchLogs.List)
			admin.GET("/inventory-search-logs/:id/", searchLogs.Retrieve)
		}
	}

	return r
}

type crudHandlers struct {
	list          gin.HandlerFunc
	retrieve      gin.HandlerFunc
	create        gin.HandlerFunc
	update        gin.HandlerFunc
	partialUpdate gin.HandlerFunc
	delete        gin.HandlerFunc
}

func registerCRUD(g *gin.RouterGroup, name string, h crudHandlers) {
	g.GET("/"+name+"/", h.list)
	g.GET("/"+name+"/:id/", h.retrieve)

	g.POST("/"+name+"/", middleware.RequireAuth(), h.create)
	g.PUT("/"+name+"/:id/", middleware.RequireAuth(), h.update)
	g.PATCH("/"+name+"/:id/", middleware.RequireAuth(), h.partialUpdate)
	g.DELETE("/"+name+"/:id/", middleware.RequireAuth(), h.delete)
}
