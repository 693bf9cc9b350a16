package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionpricer/internal/pricing/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// HTTP 处理器
// 负责处理与定价相关的 HTTP 请求
type PricingHandler struct {
	cmd   *application.PricingCommandService
	query *application.PricingQueryService
}

// 创建 HTTP 处理器实例
func NewPricingHandler(cmd *application.PricingCommandService, query *application.PricingQueryService) *PricingHandler {
	return &PricingHandler{cmd: cmd, query: query}
}

// 注册路由
// 将处理器方法绑定到 Gin 路由引擎
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/pricing")
	{
		api.POST("/price", h.PriceOption)
		api.POST("/price-from-history", h.PriceFromHistory)
		api.POST("/history/import", h.ImportHistory)
		api.GET("/runs/:symbol", h.ListRuns)
		api.GET("/runs/:symbol/latest", h.GetLatestRun)
		api.GET("/history/:symbol", h.GetPriceHistory)
		api.GET("/volatility/:symbol", h.EstimateVolatility)
	}
}

// PriceRequest 定价请求
type PriceRequest struct {
	Symbol       string  `json:"symbol" binding:"required"`
	Model        string  `json:"model"`
	Spot         float64 `json:"spot" binding:"required"`
	Strike       float64 `json:"strike"`
	RiskFreeRate float64 `json:"risk_free_rate"`
	Volatility   float64 `json:"volatility"`
	Maturity     float64 `json:"maturity" binding:"required"`
	SampleCount  int64   `json:"sample_count" binding:"required"`
	Workers      int     `json:"workers"`
	Seed         int64   `json:"seed"`
}

// PriceFromHistoryRequest 基于历史价格定价请求, 省略项使用服务端默认值。
type PriceFromHistoryRequest struct {
	Symbol       string  `json:"symbol" binding:"required"`
	Model        string  `json:"model"`
	Strike       float64 `json:"strike"`
	RiskFreeRate float64 `json:"risk_free_rate"`
	Maturity     float64 `json:"maturity"`
	SampleCount  int64   `json:"sample_count"`
	Workers      int     `json:"workers"`
	Seed         int64   `json:"seed"`
}

// ImportHistoryRequest 历史价格导入请求
type ImportHistoryRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Path   string `json:"path" binding:"required"`
	Source string `json:"source"`
}

// PriceOption 执行一次显式参数的期权定价
func (h *PricingHandler) PriceOption(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	run, err := h.cmd.PriceOption(c.Request.Context(), application.PriceOptionCommand{
		Symbol:       req.Symbol,
		Model:        req.Model,
		Spot:         req.Spot,
		Strike:       req.Strike,
		RiskFreeRate: req.RiskFreeRate,
		Volatility:   req.Volatility,
		Maturity:     req.Maturity,
		SampleCount:  req.SampleCount,
		Workers:      req.Workers,
		Seed:         req.Seed,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "failed to price option", "symbol", req.Symbol, "error", err)
		response.Error(c, err)
		return
	}

	response.Success(c, run)
}

// PriceFromHistory 基于已导入的历史价格定价
func (h *PricingHandler) PriceFromHistory(c *gin.Context) {
	var req PriceFromHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	run, err := h.cmd.PriceFromHistory(c.Request.Context(), application.PriceFromHistoryCommand{
		Symbol:       req.Symbol,
		Model:        req.Model,
		Strike:       req.Strike,
		RiskFreeRate: req.RiskFreeRate,
		Maturity:     req.Maturity,
		SampleCount:  req.SampleCount,
		Workers:      req.Workers,
		Seed:         req.Seed,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "failed to price from history", "symbol", req.Symbol, "error", err)
		response.Error(c, err)
		return
	}

	response.Success(c, run)
}

// ImportHistory 从 CSV 文件导入历史价格
func (h *PricingHandler) ImportHistory(c *gin.Context) {
	var req ImportHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	result, err := h.cmd.ImportPriceHistory(c.Request.Context(), application.ImportPriceHistoryCommand{
		Symbol: req.Symbol,
		Path:   req.Path,
		Source: req.Source,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "failed to import price history", "symbol", req.Symbol, "error", err)
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetLatestRun 获取某标的最新定价记录
func (h *PricingHandler) GetLatestRun(c *gin.Context) {
	symbol := c.Param("symbol")

	run, err := h.query.GetLatestRun(c.Request.Context(), symbol)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to get latest run", "symbol", symbol, "error", err)
		response.Error(c, err)
		return
	}

	response.Success(c, run)
}

// ListRuns 按时间倒序列出某标的最近的定价记录
func (h *PricingHandler) ListRuns(c *gin.Context) {
	symbol := c.Param("symbol")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid limit", "")
		return
	}

	runs, err := h.query.ListRuns(c.Request.Context(), symbol, limit)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to list runs", "symbol", symbol, "error", err)
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"data": runs})
}

// GetPriceHistory 按时间倒序列出某标的最近的历史价格观测
func (h *PricingHandler) GetPriceHistory(c *gin.Context) {
	symbol := c.Param("symbol")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid limit", "")
		return
	}

	prices, err := h.query.GetPriceHistory(c.Request.Context(), symbol, limit)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to get price history", "symbol", symbol, "error", err)
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"data": prices})
}

// EstimateVolatility 用全部已入库历史估计某标的年化波动率
func (h *PricingHandler) EstimateVolatility(c *gin.Context) {
	symbol := c.Param("symbol")

	estimate, err := h.query.EstimateVolatility(c.Request.Context(), symbol)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to estimate volatility", "symbol", symbol, "error", err)
		response.Error(c, err)
		return
	}

	response.Success(c, estimate)
}
