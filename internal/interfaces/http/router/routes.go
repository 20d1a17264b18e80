package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
// requireSession 作用于需要登录的远端操作，rateLimit 只作用于生成接口
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers, requireSession, rateLimit gin.HandlerFunc) {
	// 故事图
	story := v1.Group("/story")
	{
		story.GET("", h.Story.GetStory)
		story.DELETE("", h.Story.ClearStory)
		story.GET("/preview", h.Story.Preview)
	}

	characters := v1.Group("/characters")
	{
		characters.POST("", h.Entity.CreateCharacter)
		characters.PATCH("/:id", h.Entity.UpdateCharacter)
		characters.DELETE("/:id", h.Entity.DeleteCharacter)
	}

	locations := v1.Group("/locations")
	{
		locations.POST("", h.Entity.CreateLocation)
		locations.PATCH("/:id", h.Entity.UpdateLocation)
		locations.DELETE("/:id", h.Entity.DeleteLocation)
	}

	scenes := v1.Group("/scenes")
	{
		scenes.POST("", h.Scene.CreateScene)
		scenes.PUT("/order", h.Scene.ReorderScenes)
		scenes.PATCH("/:id", h.Scene.UpdateScene)
		scenes.DELETE("/:id", h.Scene.DeleteScene)

		scenes.POST("/:id/shots", h.Scene.AddShot)
		scenes.PATCH("/:id/shots/:shotId", h.Scene.UpdateShot)
		scenes.DELETE("/:id/shots/:shotId", h.Scene.DeleteShot)
	}

	// 提示词
	prompts := v1.Group("/prompts")
	{
		prompts.GET("", h.Story.Prompts)
		prompts.GET("/combined", h.Story.CombinedPrompt)
	}

	// 本地版本与偏好
	versions := v1.Group("/versions")
	{
		versions.GET("", h.Story.Versions)
		versions.POST("/:id/restore", h.Story.RestoreVersion)
	}
	v1.GET("/settings", h.Story.GetSettings)
	v1.PUT("/settings", h.Story.SaveSettings)
	v1.GET("/theme", h.Story.GetTheme)
	v1.PUT("/theme", h.Story.SetTheme)
	v1.GET("/notifications", h.Story.Notifications)

	// 认证
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/verify", h.Auth.Verify)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", requireSession, h.Auth.Me)
	}

	// 远端项目
	projects := v1.Group("/projects", requireSession)
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("", h.Project.CreateProject)
		projects.POST("/save", h.Project.SaveProject)
		projects.POST("/:id/open", h.Project.OpenProject)
		projects.PATCH("/:id", h.Project.UpdateProject)
		projects.DELETE("/:id", h.Project.DeleteProject)
	}

	// 生成
	generate := v1.Group("/generate")
	{
		generate.POST("", requireSession, rateLimit, h.Generation.Generate)
		generate.POST("/enhance", requireSession, rateLimit, h.Generation.Enhance)
		generate.POST("/apply", h.Generation.Apply)
	}

	// 支付
	payment := v1.Group("/payment", requireSession)
	{
		payment.POST("/order", h.Payment.CreateOrder)
		payment.POST("/verify", h.Payment.Verify)
		payment.GET("/history", h.Payment.History)
	}
}
