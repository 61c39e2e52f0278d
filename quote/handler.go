package quote

import (
	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/bsengine/response"
	"github.com/wyfcoding/bsengine/xerrors"
)

// Handler 报价服务的 HTTP 入口。
type Handler struct {
	svc *Service
}

// NewHandler 创建 Handler。
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 在 group 下挂载 /options 路由。
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	options := group.Group("/options")
	options.POST("/price", h.Price)
	options.POST("/price/batch", h.PriceBatch)
	options.POST("/greeks", h.Greeks)
	options.POST("/dvalues", h.DValues)
}

// Price 处理 POST /options/price。
func (h *Handler) Price(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, badBody(err))
		return
	}
	rec, err := h.svc.Price(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rec)
}

// Greeks 处理 POST /options/greeks。
func (h *Handler) Greeks(c *gin.Context) {
	var req GreeksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, badBody(err))
		return
	}
	rec, err := h.svc.Greeks(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rec)
}

// DValues 处理 POST /options/dvalues。
func (h *Handler) DValues(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, badBody(err))
		return
	}
	rec, err := h.svc.DValues(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rec)
}

// PriceBatch 处理 POST /options/price/batch。
func (h *Handler) PriceBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, badBody(err))
		return
	}
	if len(req.Requests) == 0 {
		response.Error(c, xerrors.InvalidArg("requests must not be empty"))
		return
	}
	recs, err := h.svc.PriceBatch(c.Request.Context(), req.Requests)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"results": recs, "count": len(recs)})
}

func badBody(err error) error {
	return xerrors.New(xerrors.ErrInvalidArg, 400100, "malformed request body", err.Error(), err)
}
