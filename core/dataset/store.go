package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"books-migrator/core/timestamp"
)

// Collection file names inside the data directory.
const (
	FileProducts  = "products.json"
	FileCustomers = "customers.json"
	FileInvoices  = "invoices.json"
	FilePayments  = "payments.json"
)

// productsWrapperKey is the wrapper the legacy export nests products under.
const productsWrapperKey = "products"

// Store is the in-memory representation of the four entity collections.
// It is loaded fresh per run and passed explicitly to every operation;
// there is no ambient module state.
type Store struct {
	Products  *Collection[Product]
	Customers *Collection[Customer]
	Invoices  *Collection[Invoice]
	Payments  *Collection[Payment]

	dir string
	// paymentsPresent records whether payments.json existed at load time.
	// Older snapshots of the dataset predate payments.
	paymentsPresent bool
}

// Index is the set of valid identifiers per entity type, rebuilt from the
// current store state. It is the ground truth for verification and for
// accepting reconciliation mappings.
type Index struct {
	Products  map[string]struct{}
	Customers map[string]struct{}
	Invoices  map[string]struct{}
	Payments  map[string]struct{}
}

// Load reads all collection files from dir. A missing payments file is
// tolerated; any other missing file, and malformed JSON anywhere, aborts the
// load before any mutation can happen.
func Load(dir string) (*Store, error) {
	s := &Store{dir: dir}

	data, err := os.ReadFile(filepath.Join(dir, FileProducts))
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if s.Products, err = ParseCollection[Product](FileProducts, data, productsWrapperKey); err != nil {
		return nil, fmt.Errorf("malformed products: %w", err)
	}

	data, err = os.ReadFile(filepath.Join(dir, FileCustomers))
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	if s.Customers, err = ParseCollection[Customer](FileCustomers, data, ""); err != nil {
		return nil, fmt.Errorf("malformed customers: %w", err)
	}

	data, err = os.ReadFile(filepath.Join(dir, FileInvoices))
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	if s.Invoices, err = ParseCollection[Invoice](FileInvoices, data, ""); err != nil {
		return nil, fmt.Errorf("malformed invoices: %w", err)
	}

	data, err = os.ReadFile(filepath.Join(dir, FilePayments))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.Payments = emptyCollection[Payment](FilePayments)
	case err != nil:
		return nil, fmt.Errorf("load payments: %w", err)
	default:
		s.paymentsPresent = true
		if s.Payments, err = ParseCollection[Payment](FilePayments, data, ""); err != nil {
			return nil, fmt.Errorf("malformed payments: %w", err)
		}
	}

	return s, nil
}

func emptyCollection[T any](name string) *Collection[T] {
	return &Collection[T]{Name: name, Shape: ShapeArray, byID: map[string]*T{}}
}

// Dir returns the data directory the store was loaded from.
func (s *Store) Dir() string {
	return s.dir
}

// HasPayments reports whether a payments file was present at load time.
func (s *Store) HasPayments() bool {
	return s.paymentsPresent
}

// BuildIndex derives the valid identifier sets from current store state.
// Callers must rebuild after any fix pass mutates the store.
func (s *Store) BuildIndex() *Index {
	return &Index{
		Products:  s.Products.IDs(),
		Customers: s.Customers.IDs(),
		Invoices:  s.Invoices.IDs(),
		Payments:  s.Payments.IDs(),
	}
}

// Save writes every collection back to its file in the original shape.
// When backup is true a timestamped sibling copy of each file is taken first,
// so a bad run can be rolled back by file replacement. Payments are only
// written if the file existed at load time.
func (s *Store) Save(backup bool) error {
	if err := s.saveCollection(s.Products, FileProducts, backup); err != nil {
		return err
	}
	if err := s.saveCollection(s.Customers, FileCustomers, backup); err != nil {
		return err
	}
	if err := s.saveCollection(s.Invoices, FileInvoices, backup); err != nil {
		return err
	}
	if s.paymentsPresent {
		if err := s.saveCollection(s.Payments, FilePayments, backup); err != nil {
			return err
		}
	}
	return nil
}

func saveEncoded(dir, name string, data []byte, backup bool) error {
	path := filepath.Join(dir, name)
	if backup {
		if _, err := BackupFile(path); err != nil {
			return fmt.Errorf("backup %s: %w", name, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) saveCollection(c interface{ Encode() ([]byte, error) }, name string, backup bool) error {
	data, err := c.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return saveEncoded(s.dir, name, data, backup)
}

// ConvertTimestamps switches every recognized date field in the store to the
// given on-disk format and returns the number of fields converted.
func (s *Store) ConvertTimestamps(f timestamp.Format) int {
	converted := 0
	convert := func(vs ...*timestamp.Value) {
		for _, v := range vs {
			if v != nil && v.Convert(f) {
				converted++
			}
		}
	}

	for _, p := range s.Products.All() {
		convert(p.CreatedAt, p.UpdatedAt)
		for i := range p.Prices {
			convert(p.Prices[i].EffectiveDate)
		}
	}
	for _, c := range s.Customers.All() {
		convert(c.CreatedAt, c.UpdatedAt)
		for i := range c.CustomProductPricing {
			for j := range c.CustomProductPricing[i].Prices {
				convert(c.CustomProductPricing[i].Prices[j].EffectiveDate)
			}
		}
	}
	for _, inv := range s.Invoices.All() {
		convert(inv.IssueDate, inv.DueDate, inv.CreatedAt, inv.UpdatedAt)
	}
	for _, p := range s.Payments.All() {
		convert(p.PaymentDate, p.CreatedAt, p.UpdatedAt)
	}
	return converted
}
