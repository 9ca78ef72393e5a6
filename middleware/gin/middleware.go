package ginmw

import (
	"github.com/gin-gonic/gin"

	formkit "github.com/reoring/formkit"
	"github.com/reoring/formkit/middleware"
)

// ValidateJSON decodes the request body as a JSON object and validates it
// with s, localized by Accept-Language. On success the declared values are
// stored in the request context; on failure the chain is aborted with the
// error payload.
func ValidateJSON(s *formkit.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, err := middleware.Decode(c.Request.Context(), middleware.Localize(s, c.Request), c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(middleware.Status(err), middleware.ErrorPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithValues(c.Request.Context(), values))
		c.Next()
	}
}

// GetValues fetches the validated values from gin.Context.
func GetValues(c *gin.Context) (formkit.Values, bool) {
	return middleware.ValuesFromContext(c.Request.Context())
}
