package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edudirectory/internal/app/controllers"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	State      *controllers.StateController
	City       *controllers.CityController
	University *controllers.UniversityController
	College    *controllers.CollegeController
	Course     *controllers.CourseController
	Media      *controllers.MediaController
	User       *controllers.UserController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl *Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", ctrl.Auth.Logout)
		authenticated.GET("/auth/me", ctrl.Auth.Me)
	}

	// Everything below is restricted to console admins
	admin := authenticated.Group("")
	admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))

	states := admin.Group("/states")
	{
		states.GET("", ctrl.State.GetAllStates)
		states.POST("", ctrl.State.CreateState)
		states.GET("/slug/:slug", ctrl.State.GetStateBySlug)
		states.GET("/:id", ctrl.State.GetStateByID)
		states.PUT("/:id", ctrl.State.UpdateState)
		states.DELETE("/:id", ctrl.State.DeleteState)
	}

	cities := admin.Group("/cities")
	{
		cities.GET("", ctrl.City.GetCities)
		cities.POST("", ctrl.City.CreateCity)
		cities.GET("/slug/:slug", ctrl.City.GetCityBySlug)
		cities.GET("/:id", ctrl.City.GetCityByID)
		cities.PUT("/:id", ctrl.City.UpdateCity)
		cities.DELETE("/:id", ctrl.City.DeleteCity)
		cities.PUT("/:id/image", ctrl.City.ReplaceCityImage)
		cities.DELETE("/:id/image", ctrl.City.RemoveCityImage)
	}

	universities := admin.Group("/universities")
	{
		universities.GET("", ctrl.University.GetUniversities)
		universities.POST("", ctrl.University.CreateUniversity)
		universities.GET("/slug/:slug", ctrl.University.GetUniversityBySlug)
		universities.GET("/:id", ctrl.University.GetUniversityByID)
		universities.PUT("/:id", ctrl.University.UpdateUniversity)
		universities.DELETE("/:id", ctrl.University.DeleteUniversity)
		universities.PUT("/:id/image", ctrl.University.ReplaceUniversityImage)
		universities.DELETE("/:id/image", ctrl.University.RemoveUniversityImage)
	}

	colleges := admin.Group("/colleges")
	{
		colleges.GET("", ctrl.College.GetColleges)
		colleges.POST("", ctrl.College.CreateCollege)
		colleges.GET("/slug/:slug", ctrl.College.GetCollegeBySlug)
		colleges.GET("/:id", ctrl.College.GetCollegeByID)
		colleges.PUT("/:id", ctrl.College.UpdateCollege)
		colleges.DELETE("/:id", ctrl.College.DeleteCollege)

		colleges.GET("/:id/courses", ctrl.College.GetCollegeCourses)
		colleges.PUT("/:id/courses", ctrl.College.LinkCourses)

		// Media attached to a college
		colleges.POST("/:id/images", ctrl.Media.UploadCollegeImage)
		colleges.PUT("/:id/images/order", ctrl.Media.ReorderImages)
		colleges.POST("/:id/videos", ctrl.Media.AddCollegeVideo)
		colleges.PUT("/:id/videos/order", ctrl.Media.ReorderVideos)
		colleges.PUT("/:id/documents/:kind", ctrl.Media.UploadCollegeDocument)
		colleges.DELETE("/:id/documents/:kind", ctrl.Media.RemoveCollegeDocument)
	}

	admin.DELETE("/images/:id", ctrl.Media.DeleteImage)
	admin.DELETE("/videos/:id", ctrl.Media.DeleteVideo)

	courses := admin.Group("/courses")
	{
		courses.GET("", ctrl.Course.GetCourses)
		courses.POST("", ctrl.Course.CreateCourse)
		courses.GET("/slug/:slug", ctrl.Course.GetCourseBySlug)
		courses.GET("/:id", ctrl.Course.GetCourseByID)
		courses.PUT("/:id", ctrl.Course.UpdateCourse)
		courses.DELETE("/:id", ctrl.Course.DeleteCourse)
	}

	users := admin.Group("/users")
	{
		users.GET("", ctrl.User.GetUsers)
		users.POST("", ctrl.User.CreateUser)
		users.PUT("/:id/role", ctrl.User.UpdateUserRole)
		users.DELETE("/:id", ctrl.User.DeleteUser)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
