package server

import (
	handler "auction-site/services/auction/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(service handler.AuctionServiceInterface) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auctionHandler := handler.NewAuctionHandler(service)

	sites := router.Group("/sites")
	{
		sites.POST("", auctionHandler.CreateSiteHandler)
		sites.GET("", auctionHandler.ListSitesHandler)
	}

	site := sites.Group("/:site", auctionHandler.SiteMiddleware())
	{
		site.GET("", auctionHandler.GetSiteHandler)
		site.DELETE("", auctionHandler.DeleteSiteHandler)

		site.POST("/login", auctionHandler.LoginHandler)
		site.POST("/logout", auctionHandler.LogoutHandler)
		site.GET("/session", auctionHandler.SessionHandler)
		site.GET("/sessions", auctionHandler.ListSessionsHandler)
	}

	users := site.Group("/users")
	{
		users.POST("", auctionHandler.CreateUserHandler)
		users.GET("", auctionHandler.ListUsersHandler)
		users.DELETE("/:username", auctionHandler.DeleteUserHandler)
		users.GET("/:username/won", auctionHandler.WonAuctionsHandler)
	}

	auctions := site.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.DELETE("/:auction_id", auctionHandler.DeleteAuctionHandler)
		auctions.POST("/:auction_id/bids", auctionHandler.BidHandler)
	}

	return router
}
