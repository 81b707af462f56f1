package service

import (
	"context"
	"sync"

	bookingdomain "github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	reviewsdomain "github.com/durgapur-services/marketplace-backend/internal/reviews/domain"
)

type published struct {
	topic, kind, id string
}

type recordingBus struct {
	mu     sync.Mutex
	events []published
}

func (b *recordingBus) Publish(_ context.Context, topic, kind, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, published{topic, kind, id})
	return nil
}

func (b *recordingBus) topics() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.topic)
	}
	return out
}

type fakeProviders struct {
	byID      map[string]*catalogdomain.Provider
	createErr error
	lookupErr error
	created   []catalogdomain.ProviderDraft
}

func newFakeProviders(ps ...*catalogdomain.Provider) *fakeProviders {
	f := &fakeProviders{byID: map[string]*catalogdomain.Provider{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProviders) GetByID(_ context.Context, id string) (*catalogdomain.Provider, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, catalogdomain.ErrProviderNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProviders) GetByAdminUID(_ context.Context, uid string) (*catalogdomain.Provider, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, p := range f.byID {
		if p.AdminUID == uid {
			cp := *p
			return &cp, nil
		}
	}
	return nil, catalogdomain.ErrProviderNotFound
}

func (f *fakeProviders) Create(_ context.Context, d catalogdomain.ProviderDraft) (*catalogdomain.Provider, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, d)
	p := &catalogdomain.Provider{
		ID:                "prov-new",
		AdminUID:          d.AdminUID,
		AdminEmail:        d.AdminEmail,
		Name:              d.Name,
		Phone:             d.Phone,
		Category:          d.Category,
		Image:             d.Image,
		Rating:            catalogdomain.DefaultRating,
		Status:            catalogdomain.StatusOnline,
		IsVerifiedPartner: true,
	}
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeProviders) Update(_ context.Context, id string, u catalogdomain.ProviderUpdate) (*catalogdomain.Provider, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, catalogdomain.ErrProviderNotFound
	}
	p.Name, p.Price, p.Category, p.SubCategory, p.Address = u.Name, u.Price, u.Category, u.SubCategory, u.Address
	cp := *p
	return &cp, nil
}

func (f *fakeProviders) SetStatus(_ context.Context, id string, status catalogdomain.ProviderStatus) (*catalogdomain.Provider, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, catalogdomain.ErrProviderNotFound
	}
	p.Status = status
	cp := *p
	return &cp, nil
}

func (f *fakeProviders) SetImage(_ context.Context, id, url string) error {
	p, ok := f.byID[id]
	if !ok {
		return catalogdomain.ErrProviderNotFound
	}
	p.Image = url
	return nil
}

type fakeOrders struct {
	byID map[string]*bookingdomain.Order
	list []bookingdomain.Order
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*bookingdomain.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, bookingdomain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListByProvider(_ context.Context, _ string) ([]bookingdomain.Order, error) {
	return f.list, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, from, to bookingdomain.OrderStatus) (*bookingdomain.Order, error) {
	o, ok := f.byID[id]
	if !ok || o.Status != from {
		return nil, bookingdomain.ErrInvalidTransition
	}
	o.Status = to
	cp := *o
	return &cp, nil
}

type fakeReviews []reviewsdomain.Review

func (f fakeReviews) ListByProvider(_ context.Context, _ string) ([]reviewsdomain.Review, error) {
	return f, nil
}

type fakeViews int64

func (f fakeViews) Pending(_ context.Context, _ string) (int64, error) { return int64(f), nil }

type fakeUsers struct {
	names map[string]string
	err   error
}

func (f *fakeUsers) UpdateName(_ context.Context, uid, name string) error {
	if f.err != nil {
		return f.err
	}
	f.names[uid] = name
	return nil
}

type fakeAccounts struct {
	uid     string
	err     error
	deleted []string
}

func (f *fakeAccounts) CreateAccount(_ context.Context, _, _, _ string) (string, error) {
	return f.uid, f.err
}

func (f *fakeAccounts) DeleteAccount(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

type fakeBlobs struct {
	keys []string
	err  error
}

func (f *fakeBlobs) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

type memoryRoleCache struct {
	roles  map[string]domain.Role
	getErr error
}

func newMemoryRoleCache() *memoryRoleCache {
	return &memoryRoleCache{roles: map[string]domain.Role{}}
}

func (c *memoryRoleCache) Get(_ context.Context, uid string) (domain.Role, bool, error) {
	if c.getErr != nil {
		return domain.Role{}, false, c.getErr
	}
	r, ok := c.roles[uid]
	return r, ok, nil
}

func (c *memoryRoleCache) Set(_ context.Context, uid string, role domain.Role) error {
	c.roles[uid] = role
	return nil
}

func (c *memoryRoleCache) Delete(_ context.Context, uid string) error {
	delete(c.roles, uid)
	return nil
}
