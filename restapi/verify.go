package restapi

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	jwtverifier "github.com/okta/okta-jwt-verifier-golang"

	"github.com/SharedCode/guardian"
)

// principalKey is the gin context key the verified caller identity is stored
// under for the remainder of request handling.
const principalKey = "guardian_principal"

var toValidate = map[string]string{
	"aud": "api://default",
	"cid": os.Getenv("OKTA_CLIENT_ID"),
}

// Principal returns the verified caller identity attached by the token
// verification middleware.
func Principal(c *gin.Context) guardian.Principal {
	if p, ok := c.Get(principalKey); ok {
		return p.(guardian.Principal)
	}
	return guardian.Principal{}
}

// Verify the bearer token in header. On failure the 401 response has been
// written and false is returned, the real handler must not run.
func verify(c *gin.Context) bool {
	// Allow easy debugging on dev.
	if os.Getenv("GUARDIAN_ENV") == "DEV" {
		c.Set(principalKey, guardian.Principal{UID: devUID()})
		return true
	}

	token := c.Request.Header.Get("Authorization")
	if !strings.HasPrefix(token, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token"})
		return false
	}
	token = strings.TrimPrefix(token, "Bearer ")

	// Allow easy QA, bypass Okta based OAuth2 token verification w/ simple token equality check.
	if os.Getenv("GUARDIAN_ENV") == "QA" {
		qaToken := os.Getenv("GUARDIAN_QA_TOKEN")
		if qaToken != "" && token == qaToken {
			c.Set(principalKey, guardian.Principal{UID: devUID()})
			return true
		}
	}

	verifierSetup := jwtverifier.JwtVerifier{
		Issuer:           "https://" + os.Getenv("OKTA_DOMAIN") + "/oauth2/default",
		ClaimsToValidate: toValidate,
	}
	verifier := verifierSetup.New()
	jwt, err := verifier.VerifyAccessToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid token"})
		return false
	}

	c.Set(principalKey, guardian.Principal{UID: subjectOf(jwt.Claims)})
	return true
}

// subjectOf extracts the caller uid from token claims, preferring an explicit
// uid claim over the standard subject.
func subjectOf(claims map[string]interface{}) string {
	if v, ok := claims["uid"].(string); ok && v != "" {
		return v
	}
	if v, ok := claims["sub"].(string); ok {
		return v
	}
	return ""
}

func devUID() string {
	if v := os.Getenv("GUARDIAN_DEV_UID"); v != "" {
		return v
	}
	return "dev-parent"
}
