package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toaiking/ECOGO-sub002/internal/orders"
)

type fakeStore struct {
	products   []orders.Product
	customers  []orders.Customer
	upserted   []orders.Customer
	savedP     []*orders.Product
	savedO     []*orders.Order
	saveCalls  int
	findCalls  int
	findErrOn  int // fail FindCustomer on the Nth call, 0 = never
}

func (f *fakeStore) FindCustomer(ctx context.Context, phone, address string) (*orders.Customer, error) {
	f.findCalls++
	if f.findErrOn > 0 && f.findCalls == f.findErrOn {
		return nil, errors.New("db down")
	}
	for i := range f.customers {
		c := f.customers[i]
		if (phone != "" && c.Phone == phone) || (address != "" && c.Address == address) {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpsertCustomer(ctx context.Context, c *orders.Customer) error {
	f.upserted = append(f.upserted, *c)
	return nil
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]orders.Product, error) {
	return f.products, nil
}

func (f *fakeStore) SaveImport(ctx context.Context, products []*orders.Product, pending []*orders.Order) error {
	f.saveCalls++
	f.savedP = products
	f.savedO = pending
	return nil
}

func findProduct(t *testing.T, ps []*orders.Product, sku string) *orders.Product {
	t.Helper()
	for _, p := range ps {
		if p.SKU == sku {
			return p
		}
	}
	t.Fatalf("product %s not saved", sku)
	return nil
}

func TestRunImportsBatch(t *testing.T) {
	store := &fakeStore{}
	imp := &Importer{Store: store}

	rows := []RawRow{
		{Name: "Chị Lan", Phone: "0912 345 678", Items: "cá trác2 gạo nếp", Price: decimal.NewFromInt(120)},
		{Name: "Anh Minh", Phone: "+84 987 654 321", Items: "Ca Trac3"},
	}
	res, err := imp.Run(context.Background(), "dot-21-08", rows)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 2, res.Customers)
	assert.Equal(t, 2, res.Products)
	assert.Len(t, res.Orders, 2)
	assert.Equal(t, int64(120000), res.Total)
	assert.Equal(t, 1, store.saveCalls)

	// hai dong cung "cá trác" (khac dau) -> mot san pham, seed dung 1 lan
	require.Len(t, store.savedP, 2)
	ca := findProduct(t, store.savedP, "ca-trac")
	assert.True(t, ca.Stock.Equal(decimal.NewFromInt(50)), "stock %s", ca.Stock)
	assert.True(t, ca.TotalStocked.Equal(decimal.NewFromInt(50)))
	gao := findProduct(t, store.savedP, "gao-nep")
	assert.True(t, gao.Stock.Equal(decimal.NewFromInt(50)))

	require.Len(t, store.savedO, 2)
	first := store.savedO[0]
	assert.Len(t, first.Code, orders.CodeLen)
	assert.Equal(t, "0912345678", first.CustomerID)
	assert.Equal(t, "dot-21-08", first.Batch)
	assert.Equal(t, int64(120000), first.Total) // 120 nghin -> VND
	assert.Equal(t, orders.PayTransfer, first.Method)
	assert.Equal(t, orders.StatusPending, first.Status)
	assert.False(t, first.Paid)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "ca-trac", first.Items[0].SKU)
	assert.True(t, first.Items[0].Qty.Equal(decimal.NewFromInt(2)))

	second := store.savedO[1]
	assert.Equal(t, "0987654321", second.CustomerID)
	assert.Equal(t, int64(0), second.Total) // khong gia, san pham moi gia 0
	assert.NotEqual(t, first.Code, second.Code)
}

func TestRunReusesCustomerAndStockedProduct(t *testing.T) {
	store := &fakeStore{
		customers: []orders.Customer{{ID: "0912345678", Name: "Chị Lan", Phone: "0912345678"}},
		products: []orders.Product{{
			SKU: "ca-trac", Name: "cá trác", Price: 25000,
			Stock: decimal.NewFromInt(40), TotalStocked: decimal.NewFromInt(100),
		}},
	}
	imp := &Importer{Store: store}

	res, err := imp.Run(context.Background(), "b2", []RawRow{
		{Name: "Lan", Phone: "0912-345-678", Items: "cá trác2"},
	})
	require.NoError(t, err)

	assert.Zero(t, res.Customers)
	assert.Empty(t, store.upserted, "existing customer must not be re-created")

	ca := findProduct(t, store.savedP, "ca-trac")
	assert.True(t, ca.Stock.Equal(decimal.NewFromInt(40)), "already stocked, no reseed")
	assert.True(t, ca.TotalStocked.Equal(decimal.NewFromInt(100)))

	require.Len(t, store.savedO, 1)
	o := store.savedO[0]
	assert.Equal(t, "0912345678", o.CustomerID)
	assert.Equal(t, int64(50000), o.Total) // 2 x 25000
	assert.Equal(t, int64(25000), o.Items[0].Price)
}

func TestRunSeedsStoredButNeverStockedProduct(t *testing.T) {
	store := &fakeStore{
		products: []orders.Product{{
			SKU: "bun-kho", Name: "bún khô", Price: 30000,
			Stock: decimal.Zero, TotalStocked: decimal.Zero,
		}},
	}
	imp := &Importer{Store: store}

	_, err := imp.Run(context.Background(), "b3", []RawRow{{Phone: "0911222333", Items: "bún khô"}})
	require.NoError(t, err)

	p := findProduct(t, store.savedP, "bun-kho")
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(50)))
	assert.True(t, p.TotalStocked.Equal(decimal.NewFromInt(50)))

	assert.Equal(t, int64(30000), store.savedO[0].Total)
}

func TestRunAbortsBatchOnRowFailure(t *testing.T) {
	store := &fakeStore{findErrOn: 3}
	imp := &Importer{Store: store}

	rows := []RawRow{
		{Phone: "0911000001", Items: "gạo2"},
		{Phone: "0911000002", Items: "nếp3"},
		{Phone: "0911000003", Items: "cá4"},
	}
	_, err := imp.Run(context.Background(), "b4", rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.Zero(t, store.saveCalls, "nothing persisted after a row failure")
	// khach hang cua cac dong truoc do da luu, giu nguyen
	assert.Len(t, store.upserted, 2)
}

func TestRunShortPhoneGetsSurrogateID(t *testing.T) {
	store := &fakeStore{}
	imp := &Importer{Store: store}

	_, err := imp.Run(context.Background(), "b5", []RawRow{{Name: "Khách lẻ", Phone: "123", Items: "gạo"}})
	require.NoError(t, err)

	require.Len(t, store.upserted, 1)
	c := store.upserted[0]
	assert.NotEqual(t, "123", c.ID)
	assert.Len(t, c.ID, 36) // uuid
	assert.Equal(t, "123", c.Phone)
	assert.Equal(t, c.ID, store.savedO[0].CustomerID)
}
