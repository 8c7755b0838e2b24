package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/selfmastery/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Profile  *apiHandler.ProfileHandler
	TaskList *apiHandler.TaskListHandler
	Task     *apiHandler.TaskHandler
	Health   *apiHandler.HealthHandler
}

// New wires the route table. staticDir, when non-empty, serves the
// single-page client for any path no API route claims.
func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, staticDir string) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public routes
	r.POST("/users", handlers.Auth.Register)
	r.POST("/login", handlers.Auth.Login)

	// Profile
	r.GET("/profile", authMiddleware(handlers.Profile.Get))
	r.PUT("/profile", authMiddleware(handlers.Profile.Update))
	r.PUT("/profile/password", authMiddleware(handlers.Profile.ChangePassword))

	// Task lists
	r.GET("/tasklists", authMiddleware(handlers.TaskList.List))
	r.POST("/tasklists", authMiddleware(handlers.TaskList.Create))
	r.GET("/tasklists/{id}", authMiddleware(handlers.TaskList.Get))
	r.PUT("/tasklists/{id}", authMiddleware(handlers.TaskList.Update))
	r.DELETE("/tasklists/{id}", authMiddleware(handlers.TaskList.Delete))

	// Tasks
	r.GET("/tasklists/{listId}/tasks", authMiddleware(handlers.Task.ListForList))
	r.POST("/tasklists/{listId}/tasks", authMiddleware(handlers.Task.Create))
	r.GET("/tasks", authMiddleware(handlers.Task.ListAll))
	r.GET("/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/tasks/{id}", authMiddleware(handlers.Task.Delete))

	if staticDir != "" {
		fs := &fasthttp.FS{
			Root:       staticDir,
			IndexNames: []string{"index.html"},
		}
		r.NotFound = fs.NewRequestHandler()
	}

	return r
}
