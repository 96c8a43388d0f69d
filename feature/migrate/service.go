package migrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"books-migrator/core/dataset"
	"books-migrator/feature/integrity"

	"go.uber.org/zap"
)

// Collections in upload dependency order: products first (base dependency),
// then customers (pricing references products), invoices (reference customers
// and products), payments (reference customers and invoices).
var uploadOrder = []string{"products", "customers", "invoices", "payments"}

// Service performs the full re-migration of a verified dataset.
type Service struct {
	client Client
	logg   *zap.Logger
}

// NewService creates a migration service.
func NewService(client Client, logg *zap.Logger) *Service {
	return &Service{client: client, logg: logg}
}

// Remigrate clears the four target collections and uploads the current store
// in dependency order. Uploading a dataset with outstanding integrity
// violations is a fatal precondition violation, not a warning: the store is
// re-verified here and a dirty report aborts before anything is cleared.
func (s *Service) Remigrate(ctx context.Context, store *dataset.Store) error {
	report := integrity.Verify(store)
	if !report.Clean() {
		return fmt.Errorf("refusing to migrate: %d integrity violations outstanding", report.Total)
	}

	docs, err := collectDocuments(store)
	if err != nil {
		return err
	}

	for _, name := range uploadOrder {
		deleted, err := s.client.ClearCollection(ctx, name)
		if err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
		s.logg.Info("cleared collection", zap.String("collection", name), zap.Int("deleted", deleted))
	}

	for _, name := range uploadOrder {
		written, err := s.client.UploadCollection(ctx, name, docs[name])
		if err != nil {
			return fmt.Errorf("upload %s: %w", name, err)
		}
		s.logg.Info("migrated collection", zap.String("collection", name), zap.Int("documents", written))
	}

	return nil
}

func collectDocuments(store *dataset.Store) (map[string][]Document, error) {
	docs := make(map[string][]Document, len(uploadOrder))

	products, err := toDocuments(store.Products.All())
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	docs["products"] = products

	customers, err := toDocuments(store.Customers.All())
	if err != nil {
		return nil, fmt.Errorf("customers: %w", err)
	}
	docs["customers"] = customers

	invoices, err := toDocuments(store.Invoices.All())
	if err != nil {
		return nil, fmt.Errorf("invoices: %w", err)
	}
	docs["invoices"] = invoices

	payments, err := toDocuments(store.Payments.All())
	if err != nil {
		return nil, fmt.Errorf("payments: %w", err)
	}
	docs["payments"] = payments

	return docs, nil
}

// toDocuments renders entities through their JSON form so documents carry the
// exact wire representation, timestamps included.
func toDocuments[T interface{ EntityID() string }](items []T) ([]Document, error) {
	docs := make([]Document, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		var data map[string]any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&data); err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: item.EntityID(), Data: data})
	}
	return docs, nil
}
