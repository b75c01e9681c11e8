package service

import "time"

const dateKeyLayout = "2006-01-02"

// normalizeToDate 将时间截断到本地日历日的零点，作为按日比较的日期键
func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDay 判断两个时间是否落在同一个日历日。
// 必须比较 (年, 月, 日) 三元组而不是 24 小时窗口，否则夏令时切换会漂移。
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// withinDays 判断 t 是否落在 [start, end] 的日历日闭区间内
func withinDays(t, start, end time.Time) bool {
	day := normalizeToDate(t)
	return !day.Before(normalizeToDate(start)) && !day.After(normalizeToDate(end))
}

// dayDiff 返回 a 与 b 之间相差的完整日历日数（a 的零点减 b 的零点）
func dayDiff(a, b time.Time) int {
	return int(normalizeToDate(a).Sub(normalizeToDate(b)).Hours() / 24)
}

// dayRange 返回日期 d 所在日历日的 [零点, 次日零点) 区间，供数据库按日查询使用
func dayRange(d time.Time) (time.Time, time.Time) {
	start := normalizeToDate(d)
	return start, start.AddDate(0, 0, 1)
}

func formatDateKey(t time.Time) string {
	return normalizeToDate(t).Format(dateKeyLayout)
}
