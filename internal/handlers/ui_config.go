package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/temcen/laptop-advisor/internal/services"
)

type UIConfigHandler struct {
	uiConfig services.UIConfigServiceInterface
}

func NewUIConfigHandler(uiConfig services.UIConfigServiceInterface) *UIConfigHandler {
	return &UIConfigHandler{uiConfig: uiConfig}
}

// Get handles GET /api/v1/ui-config/:userId; query parameters become the
// client context.
func (h *UIConfigHandler) Get(c *gin.Context) {
	context := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			context[key] = values[0]
		}
	}

	c.JSON(http.StatusOK, h.uiConfig.GetAdaptiveUIConfig(c.Param("userId"), context))
}
