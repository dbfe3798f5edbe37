package progress

import "strconv"

// FormatValue はグラフの軸・ツールチップ用に値を整形する。
// bmiは小数1桁、bodyFatは小数1桁に%、weightは小数1桁に単位、
// それ以外は整数に単位を付ける。
func FormatValue(metric Metric, v float64, unit string) string {
	switch metric {
	case MetricBMI:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case MetricBodyFat:
		return strconv.FormatFloat(v, 'f', 1, 64) + "%"
	case MetricWeight:
		return strconv.FormatFloat(v, 'f', 1, 64) + unit
	}
	return strconv.FormatFloat(v, 'f', 0, 64) + unit
}
