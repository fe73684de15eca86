package models

import (
	"github.com/shopspring/decimal"
)

// koboPerNaira 1 奈拉 = 100 kobo
var koboPerNaira = decimal.NewFromInt(100)

// KoboFromNaira 奈拉金额转换为 kobo（四舍五入到整数）
func KoboFromNaira(naira decimal.Decimal) int64 {
	return naira.Mul(koboPerNaira).Round(0).IntPart()
}

// NairaFromKobo kobo 金额转换为奈拉（保留 2 位小数）
func NairaFromKobo(kobo int64) decimal.Decimal {
	return decimal.NewFromInt(kobo).Div(koboPerNaira).Round(2)
}

// PercentOfKobo 计算 kobo 金额的百分比部分（四舍五入到整数 kobo）
func PercentOfKobo(kobo int64, percent decimal.Decimal) int64 {
	if kobo <= 0 || !percent.IsPositive() {
		return 0
	}
	return decimal.NewFromInt(kobo).Mul(percent).Div(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FormatNaira 以 2 位小数格式化 kobo 金额
func FormatNaira(kobo int64) string {
	return NairaFromKobo(kobo).StringFixed(2)
}
