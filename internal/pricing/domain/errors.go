package domain

import "github.com/wyfcoding/pkg/xerrors"

var (
	// ErrInvalidSpot 标的现价必须为正。
	ErrInvalidSpot = xerrors.New(xerrors.ErrInvalidArg, 400101, "invalid spot", "spot price must be positive", nil)
	// ErrInvalidMaturity 到期时间必须为正。
	ErrInvalidMaturity = xerrors.New(xerrors.ErrInvalidArg, 400102, "invalid maturity", "time to maturity must be positive", nil)
	// ErrNegativeVolatility 波动率不能为负。
	ErrNegativeVolatility = xerrors.New(xerrors.ErrInvalidArg, 400103, "negative volatility", "volatility must be non-negative", nil)
	// ErrInvalidSampleCount 模拟路径数必须为正。
	ErrInvalidSampleCount = xerrors.New(xerrors.ErrInvalidArg, 400104, "invalid sample count", "sample count must be positive", nil)
	// ErrUnknownModel 不支持的定价模型。
	ErrUnknownModel = xerrors.New(xerrors.ErrInvalidArg, 400105, "unknown pricing model", "supported models: MonteCarlo, BlackScholes", nil)
	// ErrSymbolRequired 命令必须携带标的代码。
	ErrSymbolRequired = xerrors.New(xerrors.ErrInvalidArg, 400106, "symbol required", "symbol must not be empty", nil)
	// ErrNoPriceHistory 指定标的没有可用的历史价格。
	ErrNoPriceHistory = xerrors.New(xerrors.ErrNotFound, 404101, "no price history", "no historical prices available for symbol", nil)
	// ErrRunNotFound 指定标的没有定价记录。
	ErrRunNotFound = xerrors.New(xerrors.ErrNotFound, 404102, "pricing run not found", "no pricing run recorded for symbol", nil)
)
