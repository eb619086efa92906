package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/handlers"
	"github.com/cloneoverflow/backend/internal/middleware"
	"github.com/cloneoverflow/backend/internal/tokens"
)

type Deps struct {
	DB              *gorm.DB
	Issuer          *tokens.Issuer
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	QuestionHandler *handlers.QuestionHandler
	AnswerHandler   *handlers.AnswerHandler
	TagHandler      *handlers.TagHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	gate := middleware.RequireAccess(d.Issuer)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.GET("/me", d.AuthHandler.GetMe, gate)
	auth.POST("/change-password", d.AuthHandler.ChangePassword, gate)

	users := api.Group("/users")
	users.GET("/:userId", d.UserHandler.Get)
	users.GET("/:userId/profile", d.UserHandler.GetProfile)
	users.GET("/:userId/answers", d.UserHandler.GetAnswers)
	users.GET("/:userId/questions", d.UserHandler.GetQuestions)
	users.PATCH("/:userId", d.UserHandler.Update, gate)
	users.DELETE("/:userId", d.UserHandler.Delete, gate)

	questions := api.Group("/questions")
	questions.GET("/:questionId", d.QuestionHandler.Get)
	questions.POST("", d.QuestionHandler.Create, gate)
	questions.PATCH("/:questionId", d.QuestionHandler.Update, gate)
	questions.DELETE("/:questionId", d.QuestionHandler.Delete, gate)
	questions.POST("/:questionId/vote", d.QuestionHandler.Vote, gate)

	answers := api.Group("/answers")
	answers.POST("", d.AnswerHandler.Create, gate)
	answers.PATCH("/:answerId", d.AnswerHandler.Update, gate)
	answers.DELETE("/:answerId", d.AnswerHandler.Delete, gate)
	answers.POST("/:answerId/vote", d.AnswerHandler.Vote, gate)
	answers.POST("/:answerId/solution", d.AnswerHandler.MarkSolution, gate)

	api.GET("/tags", d.TagHandler.Search)

	if d.SearchHandler != nil && d.SearchHandler.Search != nil {
		api.GET("/search", d.SearchHandler.Questions)
	}
}
