package memory

import (
	"context"
	"sync"
	"time"

	domainavailability "rently/internal/domain/availability"
	domainbooking "rently/internal/domain/booking"
	domainproperty "rently/internal/domain/property"
	domaintenancy "rently/internal/domain/tenancy"
)

// PropertyRepository is an in-memory implementation backing tests and the
// default single-process wiring.
type PropertyRepository struct {
	mu    sync.RWMutex
	items map[domainproperty.PropertyID]domainproperty.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[domainproperty.PropertyID]domainproperty.Property)}
}

// ByID returns a copy so concurrent readers never observe in-flight mutation.
func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.PropertyID) (*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domainproperty.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	cp.ClearEvents()
	r.items[p.ID] = cp
	return nil
}

// BookingRepository stores bookings keyed by id, snapshot-copied on read.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	cp := b
	return &cp, nil
}

func (r *BookingRepository) ByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.PropertyID != propertyID {
			continue
		}
		cp := b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	cp.ClearEvents()
	cp.Version = b.Version + 1
	r.items[b.ID] = cp
	b.Version = cp.Version
	return nil
}

// BlockRepository stores manual availability blocks.
type BlockRepository struct {
	mu    sync.RWMutex
	items map[domainavailability.BlockID]domainavailability.Block
}

func NewBlockRepository() *BlockRepository {
	return &BlockRepository{items: make(map[domainavailability.BlockID]domainavailability.Block)}
}

func (r *BlockRepository) ByID(ctx context.Context, id domainavailability.BlockID) (*domainavailability.Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainavailability.ErrBlockNotFound
	}
	cp := b
	return &cp, nil
}

func (r *BlockRepository) ByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]domainavailability.Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domainavailability.Block
	for _, b := range r.items {
		if b.PropertyID == propertyID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BlockRepository) Save(ctx context.Context, block *domainavailability.Block) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[block.ID] = *block
	return nil
}

func (r *BlockRepository) Delete(ctx context.Context, id domainavailability.BlockID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainavailability.ErrBlockNotFound
	}
	delete(r.items, id)
	return nil
}

// TenancyRepository stores lease records.
type TenancyRepository struct {
	mu    sync.RWMutex
	items map[domaintenancy.TenantID]domaintenancy.Tenant
}

func NewTenancyRepository() *TenancyRepository {
	return &TenancyRepository{items: make(map[domaintenancy.TenantID]domaintenancy.Tenant)}
}

func (r *TenancyRepository) Put(t domaintenancy.Tenant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[t.ID] = t
}

func (r *TenancyRepository) ActiveByProperty(ctx context.Context, propertyID string, asOf time.Time) ([]domaintenancy.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domaintenancy.Tenant
	for _, t := range r.items {
		if t.PropertyID == propertyID && t.ActiveOn(asOf) {
			out = append(out, t)
		}
	}
	return out, nil
}
