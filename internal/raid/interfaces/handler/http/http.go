package http

import (
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"strconv"

	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/raid/interfaces/handler"
	"VillageRaid/internal/raid/interfaces/handler/dto"
	httpdto "VillageRaid/internal/raid/interfaces/handler/http/dto"
	"VillageRaid/internal/shared/transport"
	"VillageRaid/internal/shared/transport/http/middleware"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	raid *handler.Raid
}

func NewHttpHandler(r *handler.Raid) *HttpHandler {
	return &HttpHandler{raid: r}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/raid/loot", h.Loot)

	raidGroup := group.Group("/raid", middleware.Auth())
	raidGroup.POST("/start", h.Start)
	raidGroup.POST("/deploy", h.Deploy)
	raidGroup.POST("/begin", h.Begin)
	raidGroup.POST("/cancel", h.Cancel)
	raidGroup.GET("/state", h.State)
	raidGroup.GET("/history", h.History)
}

func (h *HttpHandler) Start(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.TokenInvalid, "登录已失效")
		return
	}

	// body 可以为空
	var req dto.StartReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	view, err := h.raid.Runtime.Start(ctx, pid, req.Seed)
	if err != nil {
		h.error(ctx, c, "raid.start", err)
		return
	}
	h.ok(c, view)
}

func (h *HttpHandler) Deploy(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.TokenInvalid, "登录已失效")
		return
	}

	var req dto.DeployReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	view, err := h.raid.Runtime.Place(ctx, pid, deploy.Unit{TroopID: req.TroopID, X: req.X, Y: req.Y})
	if err != nil {
		h.error(ctx, c, "raid.deploy", err)
		return
	}
	h.ok(c, view)
}

func (h *HttpHandler) Begin(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.TokenInvalid, "登录已失效")
		return
	}

	st, err := h.raid.Runtime.Begin(ctx, pid)
	if err != nil {
		h.error(ctx, c, "raid.begin", err)
		return
	}
	h.ok(c, st)
}

func (h *HttpHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.TokenInvalid, "登录已失效")
		return
	}

	if err := h.raid.Runtime.Cancel(ctx, pid); err != nil {
		h.error(ctx, c, "raid.cancel", err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) State(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.TokenInvalid, "登录已失效")
		return
	}

	view, err := h.raid.Runtime.State(ctx, pid)
	if err != nil {
		h.error(ctx, c, "raid.state", err)
		return
	}
	h.ok(c, view)
}

func (h *HttpHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.TokenInvalid, "登录已失效")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	recs, err := h.raid.Service.History(ctx, pid, limit)
	if err != nil {
		h.error(ctx, c, "raid.history", err)
		return
	}
	h.ok(c, dto.HistoryResp{Records: recs})
}

// Loot 查询某个难度的掠夺区间，不需要登录。
func (h *HttpHandler) Loot(c *gin.Context) {
	d, err := strconv.Atoi(c.Query("difficulty"))
	if err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	h.ok(c, h.raid.Service.LootEstimate(d))
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, httpdto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, httpdto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	code, msg := h.raid.HandleError(ctx, action, err)
	h.fail(c, code, msg)
}
