package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"booking-service/internal/model"
	"booking-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memLedger applies every statement immediately and undoes a transaction's
// writes when its function fails. It takes no row locks, so concurrent
// transactions interleave freely.
type memLedger struct {
	mu        sync.Mutex
	users     map[uuid.UUID]bool
	courses   map[uuid.UUID]*model.Course
	packages  map[uuid.UUID]*model.CreditPackage
	purchases []*model.CreditPurchase
	bookings  []*model.CourseBooking

	failOn string
	failErr error
	delay  time.Duration
}

func newMemLedger() *memLedger {
	return &memLedger{
		users:    map[uuid.UUID]bool{},
		courses:  map[uuid.UUID]*model.Course{},
		packages: map[uuid.UUID]*model.CreditPackage{},
	}
}

func (m *memLedger) addUser() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.users[id] = true
	return id
}

func (m *memLedger) addCourse(maxParticipants int) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.courses[id] = &model.Course{ID: id, Name: "Course", MaxParticipants: maxParticipants}
	return id
}

func (m *memLedger) addPackage(credits int, price string) *model.CreditPackage {
	m.mu.Lock()
	defer m.mu.Unlock()
	pkg := &model.CreditPackage{ID: uuid.New(), Name: "Package " + price, CreditAmount: credits, Price: mustDecimal(price)}
	m.packages[pkg.ID] = pkg
	return pkg
}

func (m *memLedger) grant(userID uuid.UUID, credits int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purchases = append(m.purchases, &model.CreditPurchase{ID: uuid.New(), UserID: userID, PurchasedCredits: credits})
}

func (m *memLedger) activeRows(userID, courseID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.UserID == userID && b.CourseID == courseID && b.CancelledAt == nil {
			n++
		}
	}
	return n
}

func (m *memLedger) rows(userID, courseID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.UserID == userID && b.CourseID == courseID {
			n++
		}
	}
	return n
}

func (m *memLedger) step(ctx context.Context, op string) error {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.failOn == op {
		return m.failErr
	}
	return ctx.Err()
}

func (m *memLedger) InTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	if err := m.step(ctx, "begin"); err != nil {
		return err
	}

	tx := &memTx{m: m}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	if err := m.step(ctx, "commit"); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (m *memLedger) ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]model.CourseBooking, error) {
	if err := m.step(ctx, "list"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.CourseBooking{}
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memLedger) FindCourse(ctx context.Context, courseID uuid.UUID) (*model.Course, error) {
	if err := m.step(ctx, "find course"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.courses[courseID]; ok {
		course := *c
		return &course, nil
	}
	return nil, nil
}

func (m *memLedger) FindPackage(ctx context.Context, packageID uuid.UUID) (*model.CreditPackage, error) {
	if err := m.step(ctx, "find package"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.packages[packageID]; ok {
		pkg := *p
		return &pkg, nil
	}
	return nil, nil
}

func (m *memLedger) FindActiveBooking(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseBooking, error) {
	if err := m.step(ctx, "find booking"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.UserID == userID && b.CourseID == courseID && b.CancelledAt == nil {
			booking := *b
			return &booking, nil
		}
	}
	return nil, nil
}

func (m *memLedger) SumPurchasedCredits(ctx context.Context, userID uuid.UUID) (int, error) {
	if err := m.step(ctx, "sum purchased"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, p := range m.purchases {
		if p.UserID == userID {
			total += p.PurchasedCredits
		}
	}
	return total, nil
}

func (m *memLedger) CountActiveBookingsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if err := m.step(ctx, "count by user"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.UserID == userID && b.CancelledAt == nil {
			n++
		}
	}
	return n, nil
}

func (m *memLedger) CountActiveBookingsByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	if err := m.step(ctx, "count by course"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.CourseID == courseID && b.CancelledAt == nil {
			n++
		}
	}
	return n, nil
}

type memTx struct {
	m    *memLedger
	undo []func()
}

func (t *memTx) rollback() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
}

func (t *memTx) FindCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return t.m.FindCourse(ctx, id)
}

func (t *memTx) FindPackage(ctx context.Context, id uuid.UUID) (*model.CreditPackage, error) {
	return t.m.FindPackage(ctx, id)
}

func (t *memTx) FindActiveBooking(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseBooking, error) {
	return t.m.FindActiveBooking(ctx, userID, courseID)
}

func (t *memTx) SumPurchasedCredits(ctx context.Context, userID uuid.UUID) (int, error) {
	return t.m.SumPurchasedCredits(ctx, userID)
}

func (t *memTx) CountActiveBookingsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return t.m.CountActiveBookingsByUser(ctx, userID)
}

func (t *memTx) CountActiveBookingsByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	return t.m.CountActiveBookingsByCourse(ctx, courseID)
}

func (t *memTx) LockCourse(ctx context.Context, courseID uuid.UUID) (*model.Course, error) {
	if err := t.m.step(ctx, "lock course"); err != nil {
		return nil, err
	}
	return t.m.FindCourse(ctx, courseID)
}

func (t *memTx) LockUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	if err := t.m.step(ctx, "lock user"); err != nil {
		return false, err
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	return t.m.users[userID], nil
}

func (t *memTx) CreateBooking(ctx context.Context, userID, courseID uuid.UUID, at time.Time) (*model.CourseBooking, error) {
	if err := t.m.step(ctx, "create booking"); err != nil {
		return nil, err
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, b := range t.m.bookings {
		if b.UserID == userID && b.CourseID == courseID && b.CancelledAt == nil {
			return nil, repository.ErrDuplicate
		}
	}

	booking := &model.CourseBooking{ID: uuid.New(), UserID: userID, CourseID: courseID, CreatedAt: at}
	t.m.bookings = append(t.m.bookings, booking)
	t.undo = append(t.undo, func() {
		for i, b := range t.m.bookings {
			if b == booking {
				t.m.bookings = append(t.m.bookings[:i], t.m.bookings[i+1:]...)
				return
			}
		}
	})

	out := *booking
	return &out, nil
}

func (t *memTx) CancelBooking(ctx context.Context, userID, courseID uuid.UUID, at time.Time) (int64, error) {
	if err := t.m.step(ctx, "cancel booking"); err != nil {
		return 0, err
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	var n int64
	for _, b := range t.m.bookings {
		if b.UserID == userID && b.CourseID == courseID && b.CancelledAt == nil {
			cancelledAt := at
			b.CancelledAt = &cancelledAt
			row := b
			t.undo = append(t.undo, func() { row.CancelledAt = nil })
			n++
		}
	}
	return n, nil
}

func (t *memTx) CreatePurchase(ctx context.Context, purchase *model.CreditPurchase) (*model.CreditPurchase, error) {
	if err := t.m.step(ctx, "create purchase"); err != nil {
		return nil, err
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	purchase.ID = uuid.New()
	row := *purchase
	t.m.purchases = append(t.m.purchases, &row)
	t.undo = append(t.undo, func() {
		for i, p := range t.m.purchases {
			if p == &row {
				t.m.purchases = append(t.m.purchases[:i], t.m.purchases[i+1:]...)
				return
			}
		}
	})
	return purchase, nil
}

var errStoreDown = errors.New("connection reset by peer")

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// recordingPublisher counts published events.
type recordingPublisher struct {
	mu        sync.Mutex
	admitted  []uuid.UUID
	cancelled []uuid.UUID
	purchased []uuid.UUID
	published chan struct{}
	// hold, when set, blocks every publish until it is closed.
	hold   chan struct{}
	closed bool
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{published: make(chan struct{}, 64)}
}

func (p *recordingPublisher) PublishBookingAdmitted(_ context.Context, b *model.CourseBooking) error {
	p.waitHold()
	p.mu.Lock()
	p.admitted = append(p.admitted, b.ID)
	p.mu.Unlock()
	p.published <- struct{}{}
	return nil
}

func (p *recordingPublisher) PublishBookingCancelled(_ context.Context, b *model.CourseBooking) error {
	p.waitHold()
	p.mu.Lock()
	p.cancelled = append(p.cancelled, b.ID)
	p.mu.Unlock()
	p.published <- struct{}{}
	return nil
}

func (p *recordingPublisher) PublishCreditPurchased(_ context.Context, purchase *model.CreditPurchase) error {
	p.waitHold()
	p.mu.Lock()
	p.purchased = append(p.purchased, purchase.ID)
	p.mu.Unlock()
	p.published <- struct{}{}
	return nil
}

func (p *recordingPublisher) waitHold() {
	if p.hold != nil {
		<-p.hold
	}
}

func (p *recordingPublisher) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) waitFor(n int) bool {
	for i := 0; i < n; i++ {
		select {
		case <-p.published:
		case <-time.After(2 * time.Second):
			return false
		}
	}
	return true
}

func (p *recordingPublisher) counts() (admitted, cancelled, purchased int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.admitted), len(p.cancelled), len(p.purchased)
}
