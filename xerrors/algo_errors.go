package xerrors

var (
	// ErrZeroSpot 标的价格为零。
	ErrZeroSpot = newSentinel(ErrInvalidArg, 400101, "zero spot", "spot price must be strictly positive")
	// ErrZeroStrike 行权价为零。
	ErrZeroStrike = newSentinel(ErrInvalidArg, 400102, "zero strike", "strike price must be strictly positive")
	// ErrZeroTime 到期时间为零。
	ErrZeroTime = newSentinel(ErrInvalidArg, 400103, "zero time", "time to expiry must be strictly positive")
	// ErrZeroVolatility 波动率为零。
	ErrZeroVolatility = newSentinel(ErrInvalidArg, 400104, "zero volatility", "volatility must be strictly positive")
	// ErrInvalidOptionType 无效的期权类型。
	ErrInvalidOptionType = newSentinel(ErrInvalidArg, 400105, "invalid option type", "supported types: call, put")
	// ErrInvalidAmount 数值格式错误。
	ErrInvalidAmount = newSentinel(ErrInvalidArg, 400106, "invalid amount", "expected a non-negative decimal string")
	// ErrNonPositiveLog 对数的参数必须为正。
	ErrNonPositiveLog = newSentinel(ErrInvalidArg, 400107, "non-positive logarithm argument", "ln is defined for x > 0 only")
	// ErrBatchTooLarge 批量请求超出上限。
	ErrBatchTooLarge = newSentinel(ErrLimitExceeded, 429101, "batch too large", "reduce the number of requests per batch")
	// ErrCacheMiss 缓存未命中。
	ErrCacheMiss = newSentinel(ErrNotFound, 404101, "cache miss", "entry not found in quote cache")
	// ErrExpOverflow 指数结果超出 256 位。
	ErrExpOverflow = newSentinel(ErrInternal, 500101, "exp overflow", "exponent argument exceeds the supported range")
)
