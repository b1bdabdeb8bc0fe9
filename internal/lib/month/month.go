// Package month содержит расчёты границ календарных периодов для афиши.
package month

import (
	"time"
)

// Valid сообщает, что m номер месяца от 1 до 12.
func Valid(m int) bool {
	return m >= 1 && m <= 12
}

// Range возвращает первый и последний момент месяца с точностью до секунды:
// первый день 00:00:00 и последний день 23:59:59 в зоне loc.
func Range(year int, m time.Month, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, m, 1, 0, 0, 0, 0, loc)
	// нулевой день следующего месяца это последний день текущего
	to := time.Date(year, m+1, 0, 23, 59, 59, 0, loc)
	return from, to
}

// Day возвращает границы суток, в которые попадает t в зоне loc:
// 00:00:00 и 23:59:59.
func Day(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	to := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, loc)
	return from, to
}
