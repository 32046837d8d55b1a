package utils

import (
	"strings"
	"time"
)

const (
	DATE_LAYOUT = "2006-01-02"
	DATE_NOW    = "NOW"
)

// 规范化哨兵二号分幅编号，如" t34tfl " -> "34TFL"
func NormalizeTile(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) == 6 && s[0] == 'T' {
		s = s[1:]
	}
	return s
}

// 产品名中是否包含分幅编号（形如*_T34TFL_*）
func TitleHasTile(title, tile string) bool {
	return strings.Contains(strings.ToUpper(title), "_T"+NormalizeTile(tile)+"_")
}

// 解析日期，空串或NOW表示当前时间
func ParseDate(s string, now time.Time) (t time.Time, err error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, DATE_NOW) {
		t = now
		return
	}
	if t, err = time.Parse(DATE_LAYOUT, s); err == nil {
		return
	}
	t, err = time.Parse(time.RFC3339, s)
	return
}
