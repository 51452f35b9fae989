package restapi

import (
	"fmt"
	"sort"

	"github.com/gin-gonic/gin"
)

type HTTPVerb int

const (
	Unknown = iota
	GET
	GET_ONE
	DELETE
	POST
	PUT
	PATCH
)

type RestMethod struct {
	Verb HTTPVerb
	Path string
	// Secured methods go through the bearer token verification middleware.
	Secured bool
	Handler func(c *gin.Context)
}

var restMethods = make(map[string]RestMethod)

// RegisterMethod is a helper function for Register.
func RegisterMethod(verb HTTPVerb, path string, secured bool, h func(c *gin.Context)) error {
	m := RestMethod{
		Verb:    verb,
		Path:    path,
		Secured: secured,
		Handler: h,
	}
	return Register(m)
}

// Register your REST method using this function.
func Register(m RestMethod) error {
	key := fmt.Sprintf("%d_%s", m.Verb, m.Path)
	if _, exists := restMethods[key]; exists {
		return fmt.Errorf("can't add %s, an existing handler in REST method map exists", key)
	}
	restMethods[key] = m
	return nil
}

// RestMethods returns the registered methods in deterministic order.
func RestMethods() []RestMethod {
	keys := make([]string, 0, len(restMethods))
	for k := range restMethods {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	r := make([]RestMethod, 0, len(keys))
	for _, k := range keys {
		r = append(r, restMethods[k])
	}
	return r
}

func clearMethods() {
	restMethods = make(map[string]RestMethod)
}
