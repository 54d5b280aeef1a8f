package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// リクエストログ（リクエストID/メソッド/パス/ステータス/所要時間）
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// クライアント指定が無ければ採番する
			reqID := c.Request().Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqID)

			err := next(c)
			if err != nil {
				// 予期しないエラーはここでログに残し、クライアントには詳細を返さない
				c.Error(err)
				logger.Error("request failed",
					zap.String("request_id", reqID),
					zap.String("method", c.Request().Method),
					zap.String("path", c.Request().URL.Path),
					zap.Int("status", c.Response().Status),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err),
				)
				return nil
			}

			logger.Info("request completed",
				zap.String("request_id", reqID),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)

			return nil
		}
	}
}
