// Package restapi contains helper functions for quickly and easily setting up
// the Guardian REST API: router construction, bearer token verification and
// the moderation endpoint handlers.
package restapi

import (
	"fmt"
	log "log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware

	"github.com/SharedCode/guardian/restapi/docs"
)

// NewRouter creates the HTTP router, uses the registered (REST) methods to
// make endpoint handlers out of them and sets up the swagger endpoint for
// doc'n. Secured methods get wrapped with bearer token verification.
func NewRouter(api *AnalyzeAPI) *gin.Engine {

	// Simple closure for header token verification.
	verifyHeaderToken := func(realHandler func(c *gin.Context)) func(c *gin.Context) {
		return func(c *gin.Context) {
			if verify(c) {
				realHandler(c)
			}
		}
	}

	router := gin.New()
	router.Use(gin.Logger())
	// Any panic escaping a handler surfaces as the generic server error,
	// nothing partial leaks to the caller.
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error(fmt.Sprintf("request handling panicked, details: %v", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}))
	docs.SwaggerInfo.BasePath = "/"

	clearMethods()
	RegisterMethod(POST, "/analyze", true, api.Analyze)
	RegisterMethod(GET, "/events/:childId", true, api.GetEvents)
	RegisterMethod(GET, "/ping", false, api.Ping)

	for _, rm := range RestMethods() {
		h := rm.Handler
		if rm.Secured {
			h = verifyHeaderToken(rm.Handler)
		}
		switch rm.Verb {
		case GET:
			fallthrough
		case GET_ONE:
			router.GET(rm.Path, h)
		case DELETE:
			router.DELETE(rm.Path, h)
		case POST:
			router.POST(rm.Path, h)
		case PUT:
			router.PUT(rm.Path, h)
		case PATCH:
			router.PATCH(rm.Path, h)
		default:
			panic(fmt.Sprintf("HTTP verb %d not supported", rm.Verb))
		}
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
	return router
}

// Main builds the router for the given pipeline and issues a "router run",
// blocking until the HTTP REST API is signaled to stop via OS interrupts
// like CTRL-C and such.
func Main(api *AnalyzeAPI) {
	router := NewRouter(api)
	router.Run(httpAddress())
}

func httpAddress() string {
	if v := os.Getenv("GUARDIAN_HTTP_ADDR"); v != "" {
		return v
	}
	return "localhost:8080"
}

// Use this cmd to generate Swagger docs: ~/go/bin/swag init --parseDependency
