package chat

import "time"

// Сообщения одного отправителя с разрывом меньше пяти минут рисуются
// одной визуальной группой. Ровно пять минут — уже не группа.
const groupWindow = 5 * time.Minute

type TimelineMessage struct {
	Message
	// GroupedWithPrevious — true, если сообщение рендерится без шапки
	// отправителя (аватар/имя/роль), вплотную к предыдущему.
	GroupedWithPrevious bool `json:"grouped_with_previous"`
}

// DateGroup — непрерывный отрезок лога в пределах одного календарного дня,
// под разделитель с датой.
type DateGroup struct {
	Day      time.Time         `json:"day"`
	Messages []TimelineMessage `json:"messages"`
}

// BuildTimeline превращает лог комнаты в структуру для рендера:
// разбивка по календарным дням плюс флаг группировки по отправителю.
// Чистая функция: на одном и том же логе результат всегда одинаковый.
// Границы дня считаются в loc; какой зоной резать сутки — решение
// вызывающего, nil означает локальную зону процесса.
func BuildTimeline(msgs []Message, loc *time.Location) []DateGroup {
	if loc == nil {
		loc = time.Local
	}

	var groups []DateGroup
	for _, m := range msgs {
		day := calendarDay(m.CreatedAt, loc)

		if len(groups) == 0 || !groups[len(groups)-1].Day.Equal(day) {
			groups = append(groups, DateGroup{Day: day})
		}
		g := &groups[len(groups)-1]

		grouped := false
		if len(g.Messages) > 0 {
			prev := g.Messages[len(g.Messages)-1]
			grouped = prev.SenderID == m.SenderID &&
				m.CreatedAt.Sub(prev.CreatedAt) < groupWindow
		}

		g.Messages = append(g.Messages, TimelineMessage{
			Message:             m,
			GroupedWithPrevious: grouped,
		})
	}
	return groups
}

func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
