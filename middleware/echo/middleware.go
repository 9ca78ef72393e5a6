package echomw

import (
	"github.com/labstack/echo/v4"

	formkit "github.com/reoring/formkit"
	"github.com/reoring/formkit/middleware"
)

// ValidateJSON decodes the request body as a JSON object, validates it with
// s in the language of the Accept-Language header, and stores the declared
// values in the request context. Failures answer with the error payload.
func ValidateJSON(s *formkit.Schema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			values, err := middleware.Decode(req.Context(), middleware.Localize(s, req), req.Body)
			if err != nil {
				return c.JSON(middleware.Status(err), middleware.ErrorPayload(err))
			}
			c.SetRequest(req.WithContext(middleware.ContextWithValues(req.Context(), values)))
			return next(c)
		}
	}
}

// GetValues fetches the validated values from echo.Context.
func GetValues(c echo.Context) (formkit.Values, bool) {
	return middleware.ValuesFromContext(c.Request().Context())
}
