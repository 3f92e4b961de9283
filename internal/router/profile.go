package router

import (
	"profile/internal/handler"
	"profile/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ProfileRouter struct {
	profileHandler *handler.ProfileHandler
	identity       *middleware.Identity
}

func NewProfileRouter(
	profileHandler *handler.ProfileHandler,
	identity *middleware.Identity,
) *ProfileRouter {
	return &ProfileRouter{
		profileHandler: profileHandler,
		identity:       identity,
	}
}

func (pr *ProfileRouter) RegisterRoutes(r *gin.Engine) {
	profile := r.Group("/profile")
	{
		// 需要目前用戶身分
		me := profile.Group("/me", pr.identity.Handler())
		me.GET("", pr.profileHandler.Me)
		me.GET("/discount", pr.profileHandler.Discount)
		me.PUT("/insured", pr.profileHandler.SetInsured)

		profile.GET("/invites/:key", pr.profileHandler.Invite)

		users := profile.Group("/users")
		users.GET("", pr.profileHandler.List)
		users.POST("/batch", pr.profileHandler.Batch)
		users.GET("/:userID", pr.profileHandler.Get)
		users.GET("/:userID/openid", pr.profileHandler.OpenID)
		users.PUT("/:userID/tender-opened", pr.profileHandler.SetTenderOpened)

		profile.POST("/refresh", pr.profileHandler.Refresh)
	}
}
