package config

import (
	"fmt"
	"os"
)

// 注文ステータス遷移の方針
const (
	// 前進のみ（Pending→Processing→Shipped→Delivered、Cancelledは非終端からのみ）
	StatusPolicyStrict = "strict"
	// 集合チェックのみ（任意の遷移を許す）
	StatusPolicyOpen = "open"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	GoEnv string // development/production
	FEURL string // フロントURL（CORSで使う）

	// strict / open（デフォルトstrict）
	OrderStatusPolicy string
}

// Loadは環境変数から読み込む。DB接続はinfra/dbが直接環境変数を見る
func Load() (Config, error) {
	cfg := Config{
		Port:              os.Getenv("PORT"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		GoEnv:             os.Getenv("GO_ENV"),
		FEURL:             os.Getenv("FE_URL"),
		OrderStatusPolicy: os.Getenv("ORDER_STATUS_POLICY"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.GoEnv == "" {
		cfg.GoEnv = "development"
	}
	if cfg.OrderStatusPolicy == "" {
		cfg.OrderStatusPolicy = StatusPolicyStrict
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.OrderStatusPolicy != StatusPolicyStrict && cfg.OrderStatusPolicy != StatusPolicyOpen {
		return Config{}, fmt.Errorf("ORDER_STATUS_POLICY must be strict or open")
	}

	return cfg, nil
}
