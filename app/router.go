package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodGet, "/v1/users", app.getUsersHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)

	// blog service
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.getAllBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/info", app.blogInfoHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/stats", app.blogStatsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id", app.updateBlogHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
