// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatDuration форматирует time.Duration в формат HH:MM:SS
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatTime форматирует позицию воспроизведения в формат m:ss
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatPlays форматирует число прослушиваний: 1.2M, 3.4K или само число
func FormatPlays(plays int64) string {
	switch {
	case plays >= 1000000:
		return fmt.Sprintf("%.1fM", float64(plays)/1000000)
	case plays >= 1000:
		return fmt.Sprintf("%.1fK", float64(plays)/1000)
	default:
		return strconv.FormatInt(plays, 10)
	}
}

// TruncateString обрезает строку до указанной длины, добавляя "..." если строка длиннее
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// ClampFloat ограничивает значение диапазоном [lo, hi]. NaN приводится к lo.
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
