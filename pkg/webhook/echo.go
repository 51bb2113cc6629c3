package webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// maxBodySize bounds fulfillment request bodies read by the echo adapter
const maxBodySize = 1 << 20

// Register mounts the server's routes on an echo instance
func (s *Server) Register(e *echo.Echo) {
	e.GET(TestPath, s.serveEcho)
	e.POST(WebhookPath, s.serveEcho)
}

func (s *Server) serveEcho(c echo.Context) error {
	r := c.Request()

	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}

	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}

	resp := s.Handle(r.Context(), Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: headers,
		Body:    body,
	})

	contentType := resp.Headers["Content-Type"]
	for k, v := range resp.Headers {
		if k != "Content-Type" {
			c.Response().Header().Set(k, v)
		}
	}
	return c.Blob(resp.StatusCode, contentType, resp.Body)
}
