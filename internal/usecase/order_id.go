package usecase

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const orderIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// 画面・CSV用の注文番号を生成する。
// ORD-<ミリ秒時刻のbase36>-<ランダム5桁> を大文字化したもの。
// 衝突確率は無視できる前提でユニーク判定はDBの一意制約に任せる
func GenerateOrderID(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)

	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}

	return strings.ToUpper("ORD-" + ts + "-" + string(suffix))
}
