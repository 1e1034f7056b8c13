package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics содержит бизнес-метрики движка бронирований.
// Все методы безопасны для nil-получателя: сервисы работают и без метрик.
type BookingMetrics struct {
	bookingsCreated  *prometheus.CounterVec
	slotConflicts    prometheus.Counter
	transitions      *prometheus.CounterVec
	slotOperations   *prometheus.CounterVec
	creditsConsumed  prometheus.Counter
	creditsRefunded  prometheus.Counter
	creditsDeleted   prometheus.Counter
	creditsExpired   prometheus.Counter
	checklistsSeeded prometheus.Counter
	checklistSkipped *prometheus.CounterVec
	outboxPublished  prometheus.Counter
	outboxFailed     prometheus.Counter
	outboxBacklog    prometheus.Gauge
}

// NewBookingMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewBookingMetrics() *BookingMetrics {
	return NewBookingMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewBookingMetricsWithRegisterer регистрирует метрики в переданном registerer.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewBookingMetricsWithRegisterer(registerer prometheus.Registerer) *BookingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &BookingMetrics{
		bookingsCreated: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "booking_created_total",
			Help: "Total number of bookings created, by pricing source",
		}, []string{"pricing"}),
		slotConflicts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "booking_slot_conflicts_total",
			Help: "Total number of booking attempts that lost a technician slot race",
		}),
		transitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "booking_status_transitions_total",
			Help: "Total number of applied booking status transitions",
		}, []string{"from", "to"}),
		slotOperations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "booking_slot_operations_total",
			Help: "Technician slot ledger operations by outcome",
		}, []string{"operation", "outcome"}),
		creditsConsumed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "booking_credits_consumed_total",
			Help: "Total number of package credit uses consumed",
		}),
		creditsRefunded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "booking_credits_refunded_total",
			Help: "Total number of package credit uses refunded one by one",
		}),
		creditsDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "booking_credits_deleted_total",
			Help: "Total number of credits deleted as a cancellation refund",
		}),
		creditsExpired: registerCounter(registerer, prometheus.CounterOpts{
			Name: "booking_credits_expired_total",
			Help: "Total number of credits flipped to EXPIRED",
		}),
		checklistsSeeded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "booking_checklists_seeded_total",
			Help: "Total number of maintenance checklists seeded from templates",
		}),
		checklistSkipped: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "booking_checklists_skipped_total",
			Help: "Checklist seeding attempts that did not produce a checklist, by reason",
		}, []string{"reason"}),
		outboxPublished: registerCounter(registerer, prometheus.CounterOpts{
			Name: "booking_outbox_published_total",
			Help: "Total number of outbox events published to the broker",
		}),
		outboxFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "booking_outbox_failed_total",
			Help: "Total number of outbox events marked failed after retries",
		}),
		outboxBacklog: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "booking_outbox_backlog",
			Help: "Number of pending outbox events",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

// RecordBookingCreated учитывает созданное бронирование; pricing = "service" или "package".
func (m *BookingMetrics) RecordBookingCreated(pricing string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(pricing).Inc()
}

// RecordSlotConflict учитывает проигранную гонку за слот.
func (m *BookingMetrics) RecordSlotConflict() {
	if m == nil {
		return
	}
	m.slotConflicts.Inc()
}

// RecordTransition учитывает применённый переход статуса.
func (m *BookingMetrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// RecordSlotOperation учитывает операцию ledger'а слотов (reserve/attach/release) и её исход.
func (m *BookingMetrics) RecordSlotOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.slotOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *BookingMetrics) RecordCreditConsumed(n int) {
	if m == nil {
		return
	}
	m.creditsConsumed.Add(float64(n))
}

func (m *BookingMetrics) RecordCreditRefunded() {
	if m == nil {
		return
	}
	m.creditsRefunded.Inc()
}

func (m *BookingMetrics) RecordCreditDeleted() {
	if m == nil {
		return
	}
	m.creditsDeleted.Inc()
}

func (m *BookingMetrics) RecordCreditsExpired(n int64) {
	if m == nil {
		return
	}
	m.creditsExpired.Add(float64(n))
}

func (m *BookingMetrics) RecordChecklistSeeded() {
	if m == nil {
		return
	}
	m.checklistsSeeded.Inc()
}

// RecordChecklistSkipped учитывает несозданный чек-лист: reason = "no_template" или "error".
func (m *BookingMetrics) RecordChecklistSkipped(reason string) {
	if m == nil {
		return
	}
	m.checklistSkipped.WithLabelValues(reason).Inc()
}

func (m *BookingMetrics) RecordOutboxPublished() {
	if m == nil {
		return
	}
	m.outboxPublished.Inc()
}

func (m *BookingMetrics) RecordOutboxFailed() {
	if m == nil {
		return
	}
	m.outboxFailed.Inc()
}

// SetOutboxBacklog выставляет текущий размер backlog outbox.
func (m *BookingMetrics) SetOutboxBacklog(n int) {
	if m == nil {
		return
	}
	m.outboxBacklog.Set(float64(n))
}
