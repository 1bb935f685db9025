package command

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/pharmacy-pos/internal/sale/domain"
)

// stockRecord is one medicine as the fake store sees it
type stockRecord struct {
	Name         string
	SellingPrice decimal.Decimal
	Quantity     int
}

// fakeSaleRepo implements domain.SaleRepository in memory with the
// same all-or-nothing contract as the database-backed repository:
// the whole cart commits under one lock or nothing does.
type fakeSaleRepo struct {
	mu        sync.Mutex
	medicines map[uint]*stockRecord
	sales     map[uint]*domain.Sale
	nextID    uint
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		medicines: make(map[uint]*stockRecord),
		sales:     make(map[uint]*domain.Sale),
	}
}

func (f *fakeSaleRepo) addMedicine(id uint, name string, price string, quantity int) {
	f.medicines[id] = &stockRecord{
		Name:         name,
		SellingPrice: decimal.RequireFromString(price),
		Quantity:     quantity,
	}
}

func (f *fakeSaleRepo) quantity(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.medicines[id].Quantity
}

func (f *fakeSaleRepo) setPrice(id uint, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.medicines[id].SellingPrice = decimal.RequireFromString(price)
}

func (f *fakeSaleRepo) ProcessSale(_ context.Context, cart []domain.CartLine) (*domain.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Validate and stage against a scratch copy so a failure at any
	// cart entry leaves the store untouched.
	scratch := make(map[uint]int, len(f.medicines))
	for id, m := range f.medicines {
		scratch[id] = m.Quantity
	}

	f.nextID++
	sale := &domain.Sale{
		ID:            f.nextID,
		ReceiptNumber: fmt.Sprintf("RCP-%08d", f.nextID),
	}

	total := decimal.Zero
	for _, line := range cart {
		m, ok := f.medicines[line.MedicineID]
		if !ok {
			f.nextID--
			return nil, &domain.MedicineNotFoundError{MedicineID: line.MedicineID}
		}
		if scratch[line.MedicineID] < line.Quantity {
			f.nextID--
			return nil, &domain.InsufficientStockError{
				MedicineID: line.MedicineID,
				Name:       m.Name,
				Requested:  line.Quantity,
				Available:  scratch[line.MedicineID],
			}
		}

		scratch[line.MedicineID] -= line.Quantity
		item := domain.SaleItem{
			SaleID:      sale.ID,
			MedicineID:  line.MedicineID,
			Quantity:    line.Quantity,
			PriceAtSale: m.SellingPrice,
		}
		sale.Items = append(sale.Items, item)
		total = total.Add(item.Subtotal())
	}

	for id, qty := range scratch {
		f.medicines[id].Quantity = qty
	}
	sale.TotalAmount = total
	f.sales[sale.ID] = sale
	return sale, nil
}

func (f *fakeSaleRepo) FindByID(id uint) (*domain.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sale, ok := f.sales[id]
	if !ok {
		return nil, domain.ErrSaleNotFound
	}
	return sale, nil
}

func (f *fakeSaleRepo) FindAll(limit, offset int) ([]domain.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sales []domain.Sale
	for _, s := range f.sales {
		sales = append(sales, *s)
	}
	return sales, nil
}

func (f *fakeSaleRepo) Revenue() (*domain.RevenueReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report := &domain.RevenueReport{TotalRevenue: decimal.Zero}
	for _, s := range f.sales {
		report.SaleCount++
		report.TotalRevenue = report.TotalRevenue.Add(s.TotalAmount)
	}
	return report, nil
}

func (f *fakeSaleRepo) saleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sales)
}

func TestProcessSale_HappyPath_DecrementsStockAndComputesTotal(t *testing.T) {
	repo := newFakeSaleRepo()
	repo.addMedicine(1, "Paracetamol", "12.50", 10)
	handler := NewProcessSaleHandler(repo)

	sale, err := handler.Handle(context.Background(), ProcessSaleCommand{
		Cart: []domain.CartLine{{MedicineID: 1, Quantity: 3}},
	})

	require.NoError(t, err)
	assert.Equal(t, 7, repo.quantity(1))
	assert.Len(t, sale.Items, 1)
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("37.50")),
		"total should be 3 x 12.50, got %s", sale.TotalAmount)
	assert.NotEmpty(t, sale.ReceiptNumber)
}

func TestProcessSale_InsufficientStock_LeavesStockUnchanged(t *testing.T) {
	repo := newFakeSaleRepo()
	repo.addMedicine(1, "Amoxicillin", "8.00", 2)
	handler := NewProcessSaleHandler(repo)

	sale, err := handler.Handle(context.Background(), ProcessSaleCommand{
		Cart: []domain.CartLine{{MedicineID: 1, Quantity: 5}},
	})

	require.Error(t, err)
	assert.Nil(t, sale)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Amoxicillin", stockErr.Name)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	assert.Equal(t, 2, repo.quantity(1))
	assert.Zero(t, repo.saleCount())
}

func TestProcessSale_EmptyCart_NoSideEffects(t *testing.T) {
	repo := newFakeSaleRepo()
	repo.addMedicine(1, "Ibuprofen", "5.25", 4)
	handler := NewProcessSaleHandler(repo)

	sale, err := handler.Handle(context.Background(), ProcessSaleCommand{})

	assert.Nil(t, sale)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, 4, repo.quantity(1))
	assert.Zero(t, repo.saleCount())
}

func TestProcessSale_InvalidQuantity_RejectsWholeCart(t *testing.T) {
	repo := newFakeSaleRepo()
	repo.addMedicine(1, "Paracetamol", "12.50", 10)
	repo.addMedicine(2, "Cetirizine", "3.00", 10)
	handler := NewProcessSaleHandler(repo)

	// A valid first entry must not commit when a later entry is invalid
	sale, err := handler.Handle(context.Background(), ProcessSaleCommand{
		Cart: []domain.CartLine{
			{MedicineID: 1, Quantity: 3},
			{MedicineID: 2, Quantity: -1},
		},
	})

	require.Error(t, err)
	assert.Nil(t, sale)

	var qtyErr *domain.InvalidQuantityError
	require.ErrorAs(t, err, &qtyErr)
	assert.Equal(t, uint(2), qtyErr.MedicineID)
	assert.Equal(t, -1, qtyErr.Quantity)

	assert.Equal(t, 10, repo.quantity(1))
	assert.Equal(t, 10, repo.quantity(2))
	assert.Zero(t, repo.saleCount())
}

func TestProcessSale_UnknownMedicine_RollsBackEarlierEntries(t *testing.T) {
	repo := newFakeSaleRepo()
	repo.addMedicine(1, "Paracetamol", "12.50", 10)
	handler := NewProcessSaleHandler(repo)

	sale, err := handler.Handle(context.Background(), ProcessSaleCommand{
		Cart: []domain.CartLine{
			{MedicineID: 1, Quantity: 2},
			{MedicineID: 99, Quantity: 1},
		},
	})

	require.Error(t, err)
	assert.Nil(t, sale)

	var notFound *domain.MedicineNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, uint(99), notFound.MedicineID)

	assert.Equal(t, 10, repo.quantity(1))
	assert.Zero(t, repo.saleCount())
}

func TestProcessSale_DuplicateMedicineInCart_SecondEntrySeesDecrement(t *testing.T) {
	repo := newFakeSaleRepo()
	repo.addMedicine(1, "Paracetamol", "10.00", 5)
	handler := NewProcessSaleHandler(repo)

	// 3 + 3 exceeds the 5 on hand; the second entry must observe the
	// first entry's decrement and fail the whole cart.
	sale, err := handler.Handle(context.Background(), ProcessSaleCommand{
		Cart: []domain.CartLine{
			{MedicineID: 1, Quantity: 3},
			{MedicineID: 1, Quantity: 3},
		},
	})

	require.Error(t, err)
	assert.Nil(t, sale)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)

	assert.Equal(t, 5, repo.quantity(1))
}

func TestProcessSale_PriceCapture_LaterPriceChangeDoesNotAffectSale(t *testing.T) {
	repo := newFakeSaleRepo()
	repo.addMedicine(1, "Paracetamol", "12.50", 10)
	handler := NewProcessSaleHandler(repo)

	sale, err := handler.Handle(context.Background(), ProcessSaleCommand{
		Cart: []domain.CartLine{{MedicineID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	repo.setPrice(1, "99.99")

	stored, err := repo.FindByID(sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].PriceAtSale.Equal(decimal.RequireFromString("12.50")),
		"price_at_sale must keep the price in effect at sale time")
	assert.True(t, stored.TotalAmount.Equal(decimal.RequireFromString("25.00")))
}

func TestProcessSale_ConcurrentSales_ExactlyOneWinner(t *testing.T) {
	repo := newFakeSaleRepo()
	repo.addMedicine(1, "Paracetamol", "10.00", 10)
	handler := NewProcessSaleHandler(repo)

	quantities := []int{7, 6} // each fits alone, together they exceed stock
	results := make([]error, len(quantities))

	var wg sync.WaitGroup
	for i, qty := range quantities {
		wg.Add(1)
		go func(i, qty int) {
			defer wg.Done()
			_, err := handler.Handle(context.Background(), ProcessSaleCommand{
				Cart: []domain.CartLine{{MedicineID: 1, Quantity: qty}},
			})
			results[i] = err
		}(i, qty)
	}
	wg.Wait()

	var successes, stockFailures int
	soldQty := 0
	for i, err := range results {
		if err == nil {
			successes++
			soldQty = quantities[i]
			continue
		}
		var stockErr *domain.InsufficientStockError
		if assert.ErrorAs(t, err, &stockErr) {
			stockFailures++
		}
	}

	assert.Equal(t, 1, successes, "exactly one concurrent sale must win")
	assert.Equal(t, 1, stockFailures)
	assert.Equal(t, 10-soldQty, repo.quantity(1))
	assert.GreaterOrEqual(t, repo.quantity(1), 0, "stock must never go negative")
}

func TestProcessSale_MultiLineCart_TotalSumsSubtotals(t *testing.T) {
	repo := newFakeSaleRepo()
	repo.addMedicine(1, "Paracetamol", "12.50", 10)
	repo.addMedicine(2, "Cetirizine", "3.20", 8)
	handler := NewProcessSaleHandler(repo)

	sale, err := handler.Handle(context.Background(), ProcessSaleCommand{
		Cart: []domain.CartLine{
			{MedicineID: 1, Quantity: 2},
			{MedicineID: 2, Quantity: 5},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 8, repo.quantity(1))
	assert.Equal(t, 3, repo.quantity(2))

	// 2 x 12.50 + 5 x 3.20 = 41.00, always re-derived from the items
	want := decimal.Zero
	for _, item := range sale.Items {
		want = want.Add(item.Subtotal())
	}
	assert.True(t, sale.TotalAmount.Equal(want))
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("41.00")))
}
