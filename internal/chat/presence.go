package chat

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// Интервал опроса в состоянии Idle
	typingTick = 10 * time.Second

	// Сколько горит индикатор после перехода в Typing
	typingBurst = 2 * time.Second

	// Вероятность перехода Idle -> Typing на тике
	typingChance = 0.3
)

// Simulator — заглушка протокола присутствия: машина из двух состояний
// (Idle/Typing), выдающая эфемерный сигнал "собеседник печатает".
// В проде её целиком заменяют входящие presence-события других участников.
type Simulator struct {
	tick   time.Duration
	burst  time.Duration
	chance float64

	clock Clock
	roll  func() float64

	mu     sync.Mutex
	typing bool

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSimulator создаёт симулятор. nil-аргументы заменяются системными
// часами и rand.Float64.
func NewSimulator(clock Clock, roll func() float64) *Simulator {
	if clock == nil {
		clock = realClock{}
	}
	if roll == nil {
		roll = rand.Float64
	}
	return &Simulator{
		tick:   typingTick,
		burst:  typingBurst,
		chance: typingChance,
		clock:  clock,
		roll:   roll,
		stop:   make(chan struct{}),
	}
}

// Run крутит машину состояний до Stop. Запускается в отдельной горутине.
func (s *Simulator) Run() {
	for {
		tick := s.clock.NewTimer(s.tick)
		select {
		case <-s.stop:
			tick.Stop()
			return
		case <-tick.C():
		}

		if s.roll() >= s.chance {
			continue
		}

		s.setTyping(true)

		// Возврат в Idle безусловный и ровно через burst: новые тики
		// индикатор не продлевают.
		burst := s.clock.NewTimer(s.burst)
		select {
		case <-s.stop:
			burst.Stop()
			s.setTyping(false)
			return
		case <-burst.C():
			s.setTyping(false)
		}
	}
}

// Typing возвращает текущее значение сигнала.
func (s *Simulator) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// Stop гасит симулятор: висящие таймеры останавливаются, индикатор
// сбрасывается. Повторный Stop безопасен.
func (s *Simulator) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Simulator) setTyping(v bool) {
	s.mu.Lock()
	s.typing = v
	s.mu.Unlock()
}
