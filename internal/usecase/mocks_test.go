package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"lodgr/internal/data/entity"
	"lodgr/internal/data/repository"
	"lodgr/internal/gateway"

	"github.com/google/uuid"
)

// MockUserRepo implements repository.UserRepository for testing
type MockUserRepo struct {
	CreateFunc         func(ctx context.Context, user *entity.User) error
	FindByIDFunc       func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmailFunc    func(ctx context.Context, email string) (*entity.User, error)
	FindByUsernameFunc func(ctx context.Context, username string) (*entity.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, nil
}

// MockSessionRepo implements repository.SessionRepository for testing
type MockSessionRepo struct {
	CreateFunc func(ctx context.Context, session *entity.Session) error
	RevokeFunc func(ctx context.Context, token string) error
}

func (m *MockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	return nil, nil
}

func (m *MockSessionRepo) Revoke(ctx context.Context, token string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token)
	}
	return nil
}

func (m *MockSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

// MockPropertyRepo implements repository.PropertyRepository for testing
type MockPropertyRepo struct {
	CreateFunc   func(ctx context.Context, property *entity.Property) error
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	FindAllFunc  func(ctx context.Context, filter entity.PropertyFilter, limit, offset int) ([]*entity.Property, error)
	CountAllFunc func(ctx context.Context, filter entity.PropertyFilter) (int64, error)
	UpdateFunc   func(ctx context.Context, property *entity.Property) error
	DeleteFunc   func(ctx context.Context, id uuid.UUID) error
}

func (m *MockPropertyRepo) Create(ctx context.Context, property *entity.Property) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, property)
	}
	return nil
}

func (m *MockPropertyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPropertyRepo) FindAll(ctx context.Context, filter entity.PropertyFilter, limit, offset int) ([]*entity.Property, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, limit, offset)
	}
	return nil, nil
}

func (m *MockPropertyRepo) CountAll(ctx context.Context, filter entity.PropertyFilter) (int64, error) {
	if m.CountAllFunc != nil {
		return m.CountAllFunc(ctx, filter)
	}
	return 0, nil
}

func (m *MockPropertyRepo) Update(ctx context.Context, property *entity.Property) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, property)
	}
	return nil
}

func (m *MockPropertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockReviewRepo implements repository.ReviewRepository for testing
type MockReviewRepo struct {
	CreateFunc   func(ctx context.Context, review *entity.Review) error
	FindByIDFunc func(ctx context.Context, propertyID, id uuid.UUID) (*entity.Review, error)
	FindAllFunc  func(ctx context.Context, filter entity.ReviewFilter, limit, offset int) ([]*entity.Review, error)
	CountAllFunc func(ctx context.Context, filter entity.ReviewFilter) (int64, error)
	UpdateFunc   func(ctx context.Context, review *entity.Review) error
	DeleteFunc   func(ctx context.Context, id uuid.UUID) error
}

func (m *MockReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, review)
	}
	return nil
}

func (m *MockReviewRepo) FindByID(ctx context.Context, propertyID, id uuid.UUID) (*entity.Review, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, propertyID, id)
	}
	return nil, nil
}

func (m *MockReviewRepo) FindAll(ctx context.Context, filter entity.ReviewFilter, limit, offset int) ([]*entity.Review, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, limit, offset)
	}
	return nil, nil
}

func (m *MockReviewRepo) CountAll(ctx context.Context, filter entity.ReviewFilter) (int64, error) {
	if m.CountAllFunc != nil {
		return m.CountAllFunc(ctx, filter)
	}
	return 0, nil
}

func (m *MockReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, review)
	}
	return nil
}

func (m *MockReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockBookingRepo implements repository.BookingRepository for testing
type MockBookingRepo struct {
	CreateFunc          func(ctx context.Context, booking *entity.Booking) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIDAndUserFunc func(ctx context.Context, id, userID uuid.UUID) (*entity.Booking, error)
	FindAllFunc         func(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.Booking, error)
	CountAllFunc        func(ctx context.Context, filter entity.BookingFilter) (int64, error)
	UpdateFunc          func(ctx context.Context, booking *entity.Booking) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBookingRepo) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Booking, error) {
	if m.FindByIDAndUserFunc != nil {
		return m.FindByIDAndUserFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockBookingRepo) FindAll(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, limit, offset)
	}
	return nil, nil
}

func (m *MockBookingRepo) CountAll(ctx context.Context, filter entity.BookingFilter) (int64, error) {
	if m.CountAllFunc != nil {
		return m.CountAllFunc(ctx, filter)
	}
	return 0, nil
}

func (m *MockBookingRepo) Update(ctx context.Context, booking *entity.Booking) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MemoryPaymentRepo is an in-memory repository.PaymentRepository that
// enforces one payment per booking like the database does.
type MemoryPaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
	// statusOnlyUpdates counts UpdateStatus calls that changed a row.
	statusOnlyUpdates int
}

func NewMemoryPaymentRepo(existing ...*entity.Payment) *MemoryPaymentRepo {
	repo := &MemoryPaymentRepo{payments: make(map[uuid.UUID]*entity.Payment)}
	for _, p := range existing {
		repo.payments[p.ID] = p
	}
	return repo
}

func (m *MemoryPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.BookingID == payment.BookingID || p.TransactionID == payment.TransactionID {
			return repository.ErrPaymentExists
		}
	}
	cp := *payment
	m.payments[payment.ID] = &cp
	return nil
}

func (m *MemoryPaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryPaymentRepo) FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TransactionID == transactionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryPaymentRepo) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[paymentID]
	if !ok || p.Status != entity.PaymentStatusPending {
		return repository.ErrPaymentSettled
	}
	p.Status = status
	m.statusOnlyUpdates++
	return nil
}

func (m *MemoryPaymentRepo) UpdateStatusAndResponse(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus, chapaResponse json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[paymentID]
	if !ok || p.Status != entity.PaymentStatusPending {
		return repository.ErrPaymentSettled
	}
	p.Status = status
	p.ChapaResponse = chapaResponse
	return nil
}

func (m *MemoryPaymentRepo) All() []*entity.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		cp := *p
		out = append(out, &cp)
	}
	return out
}

// MockGateway implements PaymentGateway for testing
type MockGateway struct {
	InitiateFunc func(ctx context.Context, req gateway.InitiateRequest) (*gateway.InitiateResult, error)
	VerifyFunc   func(ctx context.Context, txRef string) (*gateway.VerifyResult, error)

	mu        sync.Mutex
	initiated []gateway.InitiateRequest
	verified  []string
}

func (m *MockGateway) Initiate(ctx context.Context, req gateway.InitiateRequest) (*gateway.InitiateResult, error) {
	m.mu.Lock()
	m.initiated = append(m.initiated, req)
	m.mu.Unlock()
	if m.InitiateFunc != nil {
		return m.InitiateFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockGateway) Verify(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
	m.mu.Lock()
	m.verified = append(m.verified, txRef)
	m.mu.Unlock()
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, txRef)
	}
	return nil, nil
}

// RecordingDispatcher implements notification.Dispatcher for testing
type RecordingDispatcher struct {
	Err error

	mu       sync.Mutex
	bookings []uuid.UUID
}

func (d *RecordingDispatcher) EnqueueBookingConfirmation(ctx context.Context, bookingID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bookings = append(d.bookings, bookingID)
	return d.Err
}

func (d *RecordingDispatcher) Enqueued() []uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uuid.UUID(nil), d.bookings...)
}
