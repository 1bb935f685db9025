package command

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

// fakeMedicineRepo implements domain.MedicineRepository in memory
type fakeMedicineRepo struct {
	mu         sync.Mutex
	medicines  map[uint]*domain.Medicine
	referenced map[uint]bool
	nextID     uint
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{
		medicines:  make(map[uint]*domain.Medicine),
		referenced: make(map[uint]bool),
	}
}

// reference marks a medicine as referenced by a sale line item
func (f *fakeMedicineRepo) reference(id uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.referenced[id] = true
}

func (f *fakeMedicineRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.medicines)
}

func (f *fakeMedicineRepo) Create(medicine *domain.Medicine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	medicine.ID = f.nextID
	copied := *medicine
	f.medicines[medicine.ID] = &copied
	return nil
}

func (f *fakeMedicineRepo) FindByID(id uint) (*domain.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.medicines[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMedicineRepo) FindAll(limit, offset int) ([]domain.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(*domain.Medicine) bool { return true }), nil
}

func (f *fakeMedicineRepo) FindAvailable() ([]domain.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(m *domain.Medicine) bool { return m.Quantity > 0 }), nil
}

func (f *fakeMedicineRepo) FindExpiringBefore(cutoff time.Time) ([]domain.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(m *domain.Medicine) bool { return m.ExpiresBy(cutoff) }), nil
}

func (f *fakeMedicineRepo) Update(medicine *domain.Medicine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.medicines[medicine.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *medicine
	f.medicines[medicine.ID] = &copied
	return nil
}

func (f *fakeMedicineRepo) UpdateSellingPrice(id uint, price decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.medicines[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.SellingPrice = price
	return nil
}

func (f *fakeMedicineRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.medicines[id]; !ok {
		return domain.ErrNotFound
	}
	if f.referenced[id] {
		return domain.ErrMedicineReferenced
	}
	delete(f.medicines, id)
	return nil
}

func (f *fakeMedicineRepo) DecrementQuantity(id uint, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.medicines[id]
	if !ok {
		return domain.ErrNotFound
	}
	if m.Quantity < amount {
		return domain.ErrInsufficientStock
	}
	m.Quantity -= amount
	return nil
}

func (f *fakeMedicineRepo) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.medicines)), nil
}

func (f *fakeMedicineRepo) sorted(keep func(*domain.Medicine) bool) []domain.Medicine {
	var out []domain.Medicine
	for _, m := range f.medicines {
		if keep(m) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
