package migrate_test

import (
	"context"
	"errors"
	"testing"

	"books-migrator/core/dataset"
	"books-migrator/feature/migrate"
	"books-migrator/feature/migrate/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func cleanStore() *dataset.Store {
	return &dataset.Store{
		Products: dataset.NewCollection[dataset.Product]("products.json", dataset.ShapeWrapped,
			&dataset.Product{ID: "braai_tas", Name: "Braai Tas"},
		),
		Customers: dataset.NewCollection[dataset.Customer]("customers.json", dataset.ShapeArray,
			&dataset.Customer{ID: "stellenbosch"},
		),
		Invoices: dataset.NewCollection[dataset.Invoice]("invoices.json", dataset.ShapeArray,
			&dataset.Invoice{ID: "inv_001", CustomerID: "stellenbosch"},
		),
		Payments: dataset.NewCollection[dataset.Payment]("payments.json", dataset.ShapeArray,
			&dataset.Payment{ID: "pay_001", CustomerID: "stellenbosch", Allocations: []dataset.Allocation{
				{InvoiceID: "inv_001"},
			}},
		),
	}
}

func TestRemigrate_ClearsThenUploadsInDependencyOrder(t *testing.T) {
	store := cleanStore()

	var calls []string
	mockClient := new(mocks.Client)
	for _, name := range []string{"products", "customers", "invoices", "payments"} {
		mockClient.On("ClearCollection", mock.Anything, name).
			Run(func(mock.Arguments) { calls = append(calls, "clear:"+name) }).
			Return(1, nil)
		mockClient.On("UploadCollection", mock.Anything, name, mock.Anything).
			Run(func(mock.Arguments) { calls = append(calls, "upload:"+name) }).
			Return(1, nil)
	}

	svc := migrate.NewService(mockClient, zap.NewNop())
	require.NoError(t, svc.Remigrate(context.Background(), store))

	assert.Equal(t, []string{
		"clear:products", "clear:customers", "clear:invoices", "clear:payments",
		"upload:products", "upload:customers", "upload:invoices", "upload:payments",
	}, calls)
}

func TestRemigrate_RefusesDirtyDataset(t *testing.T) {
	store := cleanStore()
	store.Invoices.All()[0].CustomerID = "cust_gone"

	mockClient := new(mocks.Client)
	svc := migrate.NewService(mockClient, zap.NewNop())

	err := svc.Remigrate(context.Background(), store)
	assert.ErrorContains(t, err, "refusing to migrate")
	// Nothing remote may be touched before the precondition holds.
	mockClient.AssertNotCalled(t, "ClearCollection", mock.Anything, mock.Anything)
	mockClient.AssertNotCalled(t, "UploadCollection", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemigrate_AbortsOnClearFailure(t *testing.T) {
	store := cleanStore()

	mockClient := new(mocks.Client)
	mockClient.On("ClearCollection", mock.Anything, "products").Return(0, errors.New("permission denied"))

	svc := migrate.NewService(mockClient, zap.NewNop())
	err := svc.Remigrate(context.Background(), store)
	assert.ErrorContains(t, err, "clear products")
	mockClient.AssertNotCalled(t, "UploadCollection", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemigrate_UploadsWireRepresentation(t *testing.T) {
	store := cleanStore()

	mockClient := new(mocks.Client)
	mockClient.On("ClearCollection", mock.Anything, mock.Anything).Return(0, nil)
	mockClient.On("UploadCollection", mock.Anything, mock.Anything, mock.Anything).Return(1, nil)

	svc := migrate.NewService(mockClient, zap.NewNop())
	require.NoError(t, svc.Remigrate(context.Background(), store))

	mockClient.AssertCalled(t, "UploadCollection", mock.Anything, "products",
		mock.MatchedBy(func(docs []migrate.Document) bool {
			if len(docs) != 1 || docs[0].ID != "braai_tas" {
				return false
			}
			// Documents carry the camelCase JSON field names.
			return docs[0].Data["name"] == "Braai Tas"
		}))
}
