package middleware

import (
	"io/fs"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PlugStatic serves the embedded dashboard assets under staticPrefix and
// swallows .well-known probes. Anything else falls through.
func PlugStatic(staticPrefix string, assets fs.FS) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqPath := c.Path()

		if strings.HasPrefix(reqPath, "/.well-known/") {
			return c.JSON(fiber.Map{
				"status": "ignored dynamic-static",
			})
		}

		if strings.HasPrefix(reqPath, staticPrefix+"/") {
			name := strings.TrimPrefix(reqPath, staticPrefix+"/")
			data, err := fs.ReadFile(assets, name)
			if err != nil {
				return fiber.ErrNotFound
			}

			ext := strings.TrimPrefix(path.Ext(name), ".")
			if ext != "" {
				c.Type(ext)
			}
			return c.Send(data)
		}

		return c.Next()
	}
}
