package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/flow/api/handler"
	"github.com/fastygo/flow/internal/middleware"
)

type Handlers struct {
	Task     *apiHandler.TaskHandler
	Reminder *apiHandler.ReminderHandler
	Events   *apiHandler.EventsHandler
	Health   *apiHandler.HealthHandler
}

// New builds the route table. mws wrap the whole router, outermost first.
func New(handlers Handlers, mws ...middleware.Middleware) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/v1/tasks", handlers.Task.GetTasks)
	r.GET("/api/v1/tasks/{id}", handlers.Task.GetTask)
	r.POST("/api/v1/commands/{name}", handlers.Task.Execute)

	r.GET("/api/v1/reminder", handlers.Reminder.State)
	r.POST("/api/v1/reminder/dismiss", handlers.Reminder.Dismiss)
	r.POST("/api/v1/window/focus", handlers.Reminder.Focus)

	r.GET("/api/v1/events", handlers.Events.Stream)

	return middleware.Chain(r.Handler, mws...)
}
