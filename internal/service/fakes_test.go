package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"markethub-be/internal/entity"
	"markethub-be/internal/repository/contract"
	"markethub-be/internal/repository/specification"
	"markethub-be/internal/repository/unitofwork"

	"markethub-be/pkg/booking"
	"markethub-be/pkg/gateway"

	"github.com/google/uuid"
)

// ---- logger ----

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}

func (nopLogger) Sync() error { return nil }

// ---- mailer ----

type mailRecord struct {
	Kind   string
	To     string
	Extra  string
	Amount int64
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []mailRecord
	failErr error
}

func (m *fakeMailer) record(kind, to, extra string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, mailRecord{Kind: kind, To: to, Extra: extra})
	return nil
}

func (m *fakeMailer) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.sent {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

func (m *fakeMailer) sentTo(kind, to string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.sent {
		if r.Kind == kind && r.To == to {
			return true
		}
	}
	return false
}

func (m *fakeMailer) amountTo(to string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.sent {
		if r.Kind == "order_confirmation" && r.To == to {
			return r.Amount
		}
	}
	return 0
}

func (m *fakeMailer) SendExpiryWarning(to, store string, days int) error {
	return m.record("expiry_warning", to, store)
}
func (m *fakeMailer) SendSuspensionNotice(to, store string) error {
	return m.record("suspension", to, store)
}
func (m *fakeMailer) SendDeletionNotice(to, store string) error {
	return m.record("deletion", to, store)
}
func (m *fakeMailer) SendOrderConfirmation(to, ref string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, mailRecord{Kind: "order_confirmation", To: to, Extra: ref, Amount: amount})
	return nil
}

// ---- payment gateway ----

type fakeGateway struct {
	result *gateway.VerificationResult
	err    error
	calls  int
}

func (g *fakeGateway) VerifyPayment(_ context.Context, reference string) (*gateway.VerificationResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	res := *g.result
	res.Reference = reference
	return &res, nil
}

func (g *fakeGateway) VerifyWebhookSignature(_ []byte, signature string) bool {
	return signature == "valid"
}

// ---- in-memory store shared by all fake repositories ----

type memStore struct {
	mu sync.Mutex

	slotLocks map[string]*sync.Mutex

	users         map[uuid.UUID]*entity.User
	intents       map[uuid.UUID]*entity.SignupIntent
	subscriptions map[uuid.UUID]*entity.VendorSubscription
	orders        map[uuid.UUID]*entity.Order
	bookings      map[uuid.UUID]*entity.Booking
	stores        map[uuid.UUID]*entity.Store
	products      map[uuid.UUID]*entity.Product
	listings      map[uuid.UUID]*entity.ServiceListing
	conversations map[uuid.UUID]*entity.Conversation
}

// slotLock hands out one mutex per provider-day, the serialization point
// the real repository gets from pg_advisory_xact_lock.
func (s *memStore) slotLock(providerId uuid.UUID, day time.Time) *sync.Mutex {
	key := providerId.String() + "|" + day.Format("2006-01-02")
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.slotLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.slotLocks[key] = l
	}
	return l
}

func newMemStore() *memStore {
	return &memStore{
		slotLocks:     make(map[string]*sync.Mutex),
		users:         make(map[uuid.UUID]*entity.User),
		intents:       make(map[uuid.UUID]*entity.SignupIntent),
		subscriptions: make(map[uuid.UUID]*entity.VendorSubscription),
		orders:        make(map[uuid.UUID]*entity.Order),
		bookings:      make(map[uuid.UUID]*entity.Booking),
		stores:        make(map[uuid.UUID]*entity.Store),
		products:      make(map[uuid.UUID]*entity.Product),
		listings:      make(map[uuid.UUID]*entity.ServiceListing),
		conversations: make(map[uuid.UUID]*entity.Conversation),
	}
}

// matchSpecs mimics the SQL the real specifications generate, against a
// single row described by its fields.
type rowFields struct {
	id        uuid.UUID
	vendorId  uuid.UUID
	reference string
	sku       string
	email     string
}

func matchSpecs(row rowFields, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch s := sp.(type) {
		case specification.ByID:
			if row.id != s.ID {
				return false
			}
		case specification.VendorOwnedBy:
			if row.vendorId != s.VendorID {
				return false
			}
		case specification.ByPaymentReference:
			if row.reference != s.Reference {
				return false
			}
		case specification.FilterBy:
			switch s.Field {
			case "sku":
				if row.sku != s.Value.(string) {
					return false
				}
			case "email":
				if !strings.EqualFold(row.email, s.Value.(string)) {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

// ---- fake unit of work ----

type fakeFactory struct {
	store *memStore
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *memStore
}

func (u *fakeUow) Begin(_ context.Context) error { return nil }
func (u *fakeUow) Commit() error                 { return nil }
func (u *fakeUow) Rollback() error               { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository                 { return &fakeUserRepo{u.store} }
func (u *fakeUow) SignupIntentRepository() contract.SignupIntentRepository { return &fakeIntentRepo{u.store} }
func (u *fakeUow) SubscriptionRepository() contract.SubscriptionRepository { return &fakeSubRepo{u.store} }
func (u *fakeUow) OrderRepository() contract.OrderRepository               { return &fakeOrderRepo{u.store} }
func (u *fakeUow) BookingRepository() contract.BookingRepository           { return &fakeBookingRepo{u.store} }
func (u *fakeUow) StoreRepository() contract.StoreRepository               { return &fakeStoreRepo{u.store} }
func (u *fakeUow) ProductRepository() contract.ProductRepository           { return &fakeProductRepo{u.store} }

func (u *fakeUow) ServiceListingRepository() contract.ServiceListingRepository {
	return &fakeListingRepo{u.store}
}

func (u *fakeUow) ConversationRepository() contract.ConversationRepository { return &fakeConvRepo{u.store} }

// ---- users ----

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *user
	r.s.users[user.Id] = &c
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	return r.Create(nil, user)
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if matchSpecs(rowFields{id: u.Id, email: u.Email}, specs) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SetSuspended(_ context.Context, userId uuid.UUID, suspended bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userId]; ok {
		u.IsSuspended = suspended
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

// ---- signup intents ----

type fakeIntentRepo struct{ s *memStore }

func (r *fakeIntentRepo) Create(_ context.Context, intent *entity.SignupIntent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *intent
	r.s.intents[intent.Id] = &c
	return nil
}

func (r *fakeIntentRepo) Update(_ context.Context, intent *entity.SignupIntent) error {
	return r.Create(nil, intent)
}

func (r *fakeIntentRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.SignupIntent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.intents {
		if matchSpecs(rowFields{id: i.Id, email: i.Email}, specs) {
			c := *i
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeIntentRepo) DeleteStale(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, i := range r.s.intents {
		if i.Status != entity.SignupIntentStatusCompleted && i.CreatedAt.Before(cutoff) {
			delete(r.s.intents, id)
			n++
		}
	}
	return n, nil
}

// ---- subscriptions ----

type fakeSubRepo struct{ s *memStore }

func (r *fakeSubRepo) Create(_ context.Context, sub *entity.VendorSubscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *sub
	r.s.subscriptions[sub.Id] = &c
	return nil
}

func (r *fakeSubRepo) Update(_ context.Context, sub *entity.VendorSubscription) error {
	return r.Create(nil, sub)
}

func (r *fakeSubRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.subscriptions, id)
	return nil
}

func (r *fakeSubRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.VendorSubscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sub := range r.s.subscriptions {
		if matchSpecs(rowFields{id: sub.Id, vendorId: sub.VendorId}, specs) {
			c := *sub
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeSubRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.VendorSubscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.VendorSubscription
	for _, sub := range r.s.subscriptions {
		if matchSpecs(rowFields{id: sub.Id, vendorId: sub.VendorId}, specs) {
			c := *sub
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeSubRepo) FindAllSweepable(_ context.Context) ([]*entity.VendorSubscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.VendorSubscription
	for _, sub := range r.s.subscriptions {
		if sub.Status != entity.SubscriptionStatusDeleted {
			c := *sub
			out = append(out, &c)
		}
	}
	return out, nil
}

// ---- orders ----

type fakeOrderRepo struct{ s *memStore }

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *order
	r.s.orders[order.Id] = &c
	return nil
}

func (r *fakeOrderRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if matchSpecs(rowFields{id: o.Id, reference: o.PaymentReference}, specs) {
			c := *o
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		if matchSpecs(rowFields{id: o.Id, reference: o.PaymentReference}, specs) {
			c := *o
			out = append(out, &c)
		}
	}
	return out, nil
}

// MarkPaymentCompleted mirrors the conditional UPDATE: only a row still
// short of completed flips, and only that caller gets true.
func (r *fakeOrderRepo) MarkPaymentCompleted(_ context.Context, reference string, gatewayResponse []byte, paidAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.PaymentReference == reference && o.PaymentStatus != entity.PaymentStatusCompleted {
			o.PaymentStatus = entity.PaymentStatusCompleted
			o.Status = entity.OrderStatusConfirmed
			o.GatewayResponse = gatewayResponse
			t := paidAt
			o.PaidAt = &t
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) MarkVendorDeletedByVendor(_ context.Context, vendorId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, o := range r.s.orders {
		for _, so := range o.SubOrders {
			if so.VendorId == vendorId {
				o.VendorDeleted = true
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) FindSubOrder(_ context.Context, id uuid.UUID) (*entity.VendorSubOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		for _, so := range o.SubOrders {
			if so.Id == id {
				c := so
				return &c, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) UpdateSubOrderStatus(_ context.Context, id uuid.UUID, status entity.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		for i := range o.SubOrders {
			if o.SubOrders[i].Id == id {
				o.SubOrders[i].Status = status
				return nil
			}
		}
	}
	return nil
}

// ---- bookings ----

type fakeBookingRepo struct{ s *memStore }

func (r *fakeBookingRepo) CreateIfFree(_ context.Context, b *entity.Booking) error {
	// Check-then-insert is only safe because writers for one provider-day
	// hold the slot lock across both steps, like the real repository's
	// advisory-lock transaction.
	lock := r.s.slotLock(b.ProviderId, b.Date)
	lock.Lock()
	defer lock.Unlock()

	r.s.mu.Lock()
	var existing []*entity.Booking
	for _, e := range r.s.bookings {
		if e.ProviderId == b.ProviderId {
			existing = append(existing, e)
		}
	}
	r.s.mu.Unlock()

	conflict, err := booking.CheckConflict(b.Date, b.StartMinute, b.EndMinute, existing)
	if err != nil {
		return err
	}
	if conflict != nil {
		return contract.ErrSlotTaken
	}

	r.s.mu.Lock()
	c := *b
	r.s.bookings[b.Id] = &c
	r.s.mu.Unlock()
	return nil
}

func (r *fakeBookingRepo) FindAllForProviderDay(_ context.Context, providerId uuid.UUID, day time.Time) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if b.ProviderId == providerId && b.SameDay(day) {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if matchSpecs(rowFields{id: b.Id}, specs) {
			c := *b
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *b
	r.s.bookings[b.Id] = &c
	return nil
}

func (r *fakeBookingRepo) DeleteAllByVendor(_ context.Context, vendorId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, b := range r.s.bookings {
		if b.ProviderId == vendorId {
			delete(r.s.bookings, id)
			n++
		}
	}
	return n, nil
}

// ---- stores ----

type fakeStoreRepo struct{ s *memStore }

func (r *fakeStoreRepo) Create(_ context.Context, st *entity.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *st
	r.s.stores[st.Id] = &c
	return nil
}

func (r *fakeStoreRepo) Update(_ context.Context, st *entity.Store) error {
	return r.Create(nil, st)
}

func (r *fakeStoreRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Store, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.stores {
		if matchSpecs(rowFields{id: st.Id, vendorId: st.VendorId}, specs) {
			c := *st
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeStoreRepo) SetActive(_ context.Context, storeId uuid.UUID, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.stores[storeId]; ok {
		st.IsActive = active
	}
	return nil
}

func (r *fakeStoreRepo) DeleteAllByVendor(_ context.Context, vendorId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, st := range r.s.stores {
		if st.VendorId == vendorId {
			delete(r.s.stores, id)
			n++
		}
	}
	return n, nil
}

// ---- products ----

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *p
	r.s.products[p.Id] = &c
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.Create(nil, p)
}

func (r *fakeProductRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if matchSpecs(rowFields{id: p.Id, vendorId: p.VendorId, sku: p.Sku}, specs) {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) AdjustInventory(_ context.Context, productId uuid.UUID, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[productId]; ok {
		p.Stock -= qty
		if p.Stock < 0 {
			p.Stock = 0
		}
		p.SalesCount += qty
	}
	return nil
}

func (r *fakeProductRepo) DeleteAllByVendor(_ context.Context, vendorId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, p := range r.s.products {
		if p.VendorId == vendorId {
			delete(r.s.products, id)
			n++
		}
	}
	return n, nil
}

// ---- service listings ----

type fakeListingRepo struct{ s *memStore }

func (r *fakeListingRepo) Create(_ context.Context, l *entity.ServiceListing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *l
	r.s.listings[l.Id] = &c
	return nil
}

func (r *fakeListingRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ServiceListing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ServiceListing
	for _, l := range r.s.listings {
		if matchSpecs(rowFields{id: l.Id, vendorId: l.VendorId}, specs) {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) SetPublishedByVendor(_ context.Context, vendorId uuid.UUID, published bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, l := range r.s.listings {
		if l.VendorId == vendorId {
			l.IsPublished = published
			n++
		}
	}
	return n, nil
}

func (r *fakeListingRepo) DeleteAllByVendor(_ context.Context, vendorId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, l := range r.s.listings {
		if l.VendorId == vendorId {
			delete(r.s.listings, id)
			n++
		}
	}
	return n, nil
}

// ---- conversations ----

type fakeConvRepo struct{ s *memStore }

func (r *fakeConvRepo) Create(_ context.Context, c *entity.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.conversations[c.Id] = &cp
	return nil
}

func (r *fakeConvRepo) DeleteAllByVendor(_ context.Context, vendorId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, c := range r.s.conversations {
		if c.VendorId == vendorId {
			delete(r.s.conversations, id)
			n++
		}
	}
	return n, nil
}
