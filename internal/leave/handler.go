package leave

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oasis-hr-gateway/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// GET /leave/types （emp_code はモバイルトークンのクレームから）
	r.GET("/leave/types", h.ListTypes)
	// POST /leave/requests
	r.POST("/leave/requests", h.Create)
}

func (h *Handler) ListTypes(c *gin.Context) {
	empCode := c.GetString(auth.CtxEmpCodeKey)
	if v := c.Query("emp_code"); v != "" {
		empCode = v
	}

	res, err := h.svc.Types(c.Request.Context(), empCode)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrCodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	empCode := c.GetString(auth.CtxEmpCodeKey)
	res, err := h.svc.Create(c.Request.Context(), empCode, req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

func toHTTPStatus(err error) int {
	if de, ok := err.(*DomainError); ok {
		switch de.Code {
		case ErrCodeInvalidArgument:
			return http.StatusBadRequest
		case ErrCodeRejected:
			return http.StatusBadGateway
		case ErrCodeUpstreamUnavailable:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}

type errorDTO struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	if de, ok := err.(*DomainError); ok {
		return errorBody(de.Code, de.Message)
	}
	return errorBody("INTERNAL", err.Error())
}
