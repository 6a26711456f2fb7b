package llm

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/logger"
)

// RetryPolicy 供应商侧的限流重试策略，编排层本身从不重试
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryPolicy 遇到 429 最多重试 3 次，指数退避
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, BaseDelay: 2 * time.Second}

// NewLimiter 根据 RPM/QPS 创建限流器
func NewLimiter(rpm, qps int) *rate.Limiter {
	if rpm <= 0 || qps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), qps)
}

// IsRateLimited 判断供应商是否返回了限流错误
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "resource has been exhausted")
}

// Do 在限流器放行后执行 call，仅对限流错误做退避重试
func (p RetryPolicy) Do(ctx context.Context, limiter *rate.Limiter, call func() (string, error)) (string, error) {
	var lastErr error
	for i := 0; i <= p.MaxRetries; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		out, err := call()
		if err == nil {
			return out, nil
		}
		if !IsRateLimited(err) {
			return "", err
		}

		lastErr = err
		if i < p.MaxRetries {
			delay := p.BaseDelay * time.Duration(1<<i)
			logger.Log.Warnf("LLM 被限流，%v 后重试 (%d/%d)", delay, i+1, p.MaxRetries)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return "", lastErr
}
