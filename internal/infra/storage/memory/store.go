// Package memory содержит in-memory реализации репозиториев.
// Используется в тестах сервисов и use case'ов вместо PostgreSQL; возвращает те же
// sentinel-ошибки, что и SQL-репозитории, и повторяет их ограничения уникальности.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

type outboxRecord struct {
	msg        domain.OutboxMessage
	status     string
	attemptCnt int
	createdAt  time.Time
	seq        int64
}

type state struct {
	customers     map[int64]domain.Customer
	vehicles      map[int64]domain.Vehicle
	centers       map[int64]domain.ServiceCenter
	services      map[int64]domain.Service
	technicians   map[int64]domain.Technician
	timeSlots     map[int64]domain.TimeSlot
	techSlots     map[int64]domain.TechnicianTimeSlot
	packages      map[int64]domain.ServicePackage
	credits       map[int64]domain.CustomerServiceCredit
	bookings      map[int64]domain.Booking
	parts         map[int64]string
	templates     map[int64]domain.ChecklistTemplate
	templateItems map[int64][]domain.ChecklistTemplateItem
	checklists    map[int64]domain.MaintenanceChecklist
	results       map[int64]domain.MaintenanceChecklistResult
	outbox        map[string]outboxRecord
	seq           int64
}

func newState() *state {
	return &state{
		customers:     make(map[int64]domain.Customer),
		vehicles:      make(map[int64]domain.Vehicle),
		centers:       make(map[int64]domain.ServiceCenter),
		services:      make(map[int64]domain.Service),
		technicians:   make(map[int64]domain.Technician),
		timeSlots:     make(map[int64]domain.TimeSlot),
		techSlots:     make(map[int64]domain.TechnicianTimeSlot),
		packages:      make(map[int64]domain.ServicePackage),
		credits:       make(map[int64]domain.CustomerServiceCredit),
		bookings:      make(map[int64]domain.Booking),
		parts:         make(map[int64]string),
		templates:     make(map[int64]domain.ChecklistTemplate),
		templateItems: make(map[int64][]domain.ChecklistTemplateItem),
		checklists:    make(map[int64]domain.MaintenanceChecklist),
		results:       make(map[int64]domain.MaintenanceChecklistResult),
		outbox:        make(map[string]outboxRecord),
		seq:           1000,
	}
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (st *state) clone() *state {
	items := make(map[int64][]domain.ChecklistTemplateItem, len(st.templateItems))
	for k, v := range st.templateItems {
		items[k] = append([]domain.ChecklistTemplateItem(nil), v...)
	}
	return &state{
		customers:     copyMap(st.customers),
		vehicles:      copyMap(st.vehicles),
		centers:       copyMap(st.centers),
		services:      copyMap(st.services),
		technicians:   copyMap(st.technicians),
		timeSlots:     copyMap(st.timeSlots),
		techSlots:     copyMap(st.techSlots),
		packages:      copyMap(st.packages),
		credits:       copyMap(st.credits),
		bookings:      copyMap(st.bookings),
		parts:         copyMap(st.parts),
		templates:     copyMap(st.templates),
		templateItems: items,
		checklists:    copyMap(st.checklists),
		results:       copyMap(st.results),
		outbox:        copyMap(st.outbox),
		seq:           st.seq,
	}
}

// Store общее in-memory состояние всех репозиториев
type Store struct {
	mu       sync.RWMutex
	st       *state
	failures map[string]error
	now      func() time.Time

	// txMu сериализует транзакции, как SERIALIZABLE в PostgreSQL
	txMu sync.Mutex
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		st:       newState(),
		failures: make(map[string]error),
		now:      time.Now,
	}
}

// FailOn заставляет операцию op (например "checklist.CreateResults") возвращать err.
// nil снимает ошибку.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// injected вызывается под s.mu
func (s *Store) injected(op string) error {
	return s.failures[op]
}

func (s *Store) nextID() int64 {
	s.st.seq++
	return s.st.seq
}

// Репозитории

func (s *Store) Bookings() *BookingRepository { return &BookingRepository{s: s} }
func (s *Store) TechSlots() *TechSlotRepository { return &TechSlotRepository{s: s} }
func (s *Store) Credits() *CreditRepository { return &CreditRepository{s: s} }
func (s *Store) Packages() *PackageRepository { return &PackageRepository{s: s} }
func (s *Store) Checklists() *ChecklistRepository { return &ChecklistRepository{s: s} }
func (s *Store) Directory() *DirectoryRepository { return &DirectoryRepository{s: s} }
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{s: s} }
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

type txKey struct{}

// TxManager эмулирует транзакции: снимок состояния на входе и откат к нему при ошибке.
// Вложенный вызов выполняется в уже открытой транзакции.
type TxManager struct {
	s *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.RLock()
	snapshot := m.s.st.clone()
	m.s.mu.RUnlock()

	rollback := func() {
		m.s.mu.Lock()
		m.s.st = snapshot
		m.s.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		rollback()
		return err
	}
	return nil
}

// Наполнение справочников

func (s *Store) AddCustomer(c domain.Customer) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.nextID()
	}
	s.st.customers[c.ID] = c
	return c
}

func (s *Store) AddVehicle(v domain.Vehicle) domain.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == 0 {
		v.ID = s.nextID()
	}
	s.st.vehicles[v.ID] = v
	return v
}

func (s *Store) AddCenter(c domain.ServiceCenter) domain.ServiceCenter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.nextID()
	}
	s.st.centers[c.ID] = c
	return c
}

func (s *Store) AddService(svc domain.Service) domain.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == 0 {
		svc.ID = s.nextID()
	}
	s.st.services[svc.ID] = svc
	return svc
}

func (s *Store) AddTechnician(t domain.Technician) domain.Technician {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.nextID()
	}
	s.st.technicians[t.ID] = t
	return t
}

func (s *Store) AddTimeSlot(ts domain.TimeSlot) domain.TimeSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ts.ID == 0 {
		ts.ID = s.nextID()
	}
	s.st.timeSlots[ts.ID] = ts
	return ts
}

// AddTechnicianSlot добавляет слот техника; IsAvailable по умолчанию не выставляется,
// передавайте его явно
func (s *Store) AddTechnicianSlot(ts domain.TechnicianTimeSlot) domain.TechnicianTimeSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ts.ID == 0 {
		ts.ID = s.nextID()
	}
	ts.WorkDate = truncateDate(ts.WorkDate)
	s.st.techSlots[ts.ID] = ts
	return ts
}

func (s *Store) AddPackage(p domain.ServicePackage) domain.ServicePackage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID()
	}
	s.st.packages[p.ID] = p
	return p
}

func (s *Store) AddPart(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.parts[id] = name
}

// AddChecklistTemplate добавляет шаблон с пунктами; PartName пунктов берется из деталей
func (s *Store) AddChecklistTemplate(tpl domain.ChecklistTemplate, items []domain.ChecklistTemplateItem) domain.ChecklistTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tpl.ID == 0 {
		tpl.ID = s.nextID()
	}
	s.st.templates[tpl.ID] = tpl

	stored := make([]domain.ChecklistTemplateItem, 0, len(items))
	for _, item := range items {
		if item.ID == 0 {
			item.ID = s.nextID()
		}
		item.TemplateID = tpl.ID
		stored = append(stored, item)
	}
	s.st.templateItems[tpl.ID] = stored
	return tpl
}

// AddCredit добавляет кредит напрямую, минуя ledger
func (s *Store) AddCredit(c domain.CustomerServiceCredit) domain.CustomerServiceCredit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.nextID()
	}
	s.st.credits[c.ID] = c
	return c
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
