package clock

import "time"

// Real источник текущего времени в часовом поясе сервисного центра
type Real struct {
	loc *time.Location
}

// New создает часы; nil означает локальный часовой пояс процесса
func New(loc *time.Location) *Real {
	if loc == nil {
		loc = time.Local
	}
	return &Real{loc: loc}
}

// Now возвращает текущее время
func (c *Real) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location возвращает часовой пояс часов
func (c *Real) Location() *time.Location {
	return c.loc
}
