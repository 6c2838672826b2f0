package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"oasis-hr-gateway/internal/platform/auth"
)

var ErrNoData = errors.New("no valid data found for this employee")

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	// 識別子はモバイルトークンのクレームから取る
	r.GET("/profile", h.Get)
}

func (h *Handler) Get(c *gin.Context) {
	empID := c.GetString(auth.CtxEmpIDKey)
	companyID := c.GetInt64(auth.CtxCompanyIDKey)
	branchID := c.GetInt64(auth.CtxBranchIDKey)
	if empID == "" || companyID == 0 || branchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mobile session required"})
		return
	}

	res, err := h.svc.Get(c.Request.Context(), companyID, branchID, empID)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNoData.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch employee data"})
		return
	}
	c.JSON(http.StatusOK, res)
}
