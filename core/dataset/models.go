package dataset

import (
	"encoding/json"

	"books-migrator/core/timestamp"
)

// Field names mirror the camelCase keys of the normalized JSON dataset.
// Relationship fields (customerId, productId, invoiceId, parentCompanyId) are
// plain strings where the empty string means the relationship is absent; the
// verifier only inspects non-empty references. Money fields are json.Number so
// amounts round-trip without float reformatting.

// Product is an immutable reference target. Products never hold dangling
// references themselves.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Prices      []ProductPrice   `json:"prices,omitempty"`
	CreatedAt   *timestamp.Value `json:"createdAt,omitempty"`
	UpdatedAt   *timestamp.Value `json:"updatedAt,omitempty"`
}

// ProductPrice is one row of a product's price list.
type ProductPrice struct {
	ID            string           `json:"id,omitempty"`
	Type          string           `json:"type,omitempty"`
	Amount        json.Number      `json:"amount,omitempty"`
	EffectiveDate *timestamp.Value `json:"effectiveDate,omitempty"`
}

// Customer may reference a parent customer and carries per-product custom
// pricing records whose productId keys are relationships, not ownership.
type Customer struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name,omitempty"`
	Email                string           `json:"email,omitempty"`
	Phone                string           `json:"phone,omitempty"`
	ParentCompanyID      string           `json:"parentCompanyId,omitempty"`
	CustomProductPricing []PricingRecord  `json:"customProductPricing,omitempty"`
	Notes                string           `json:"notes,omitempty"`
	CreatedAt            *timestamp.Value `json:"createdAt,omitempty"`
	UpdatedAt            *timestamp.Value `json:"updatedAt,omitempty"`
}

// PricingRecord holds a customer's negotiated prices for one product. Its ID
// and the IDs of its price rows embed the product id as a substring, which is
// why mapping a product id cascades into them.
type PricingRecord struct {
	ID        string     `json:"id"`
	ProductID string     `json:"productId"`
	Prices    []PriceRow `json:"prices,omitempty"`
}

// PriceRow is one negotiated price inside a pricing record.
type PriceRow struct {
	ID            string           `json:"id,omitempty"`
	Type          string           `json:"type,omitempty"`
	Amount        json.Number      `json:"amount,omitempty"`
	EffectiveDate *timestamp.Value `json:"effectiveDate,omitempty"`
}

// Invoice references a customer and, through its line items, products.
type Invoice struct {
	ID             string           `json:"id"`
	InvoiceNumber  string           `json:"invoiceNumber,omitempty"`
	Type           string           `json:"type,omitempty"`
	CustomerID     string           `json:"customerId,omitempty"`
	IssueDate      *timestamp.Value `json:"issueDate,omitempty"`
	DueDate        *timestamp.Value `json:"dueDate,omitempty"`
	Status         string           `json:"status,omitempty"`
	LineItems      []LineItem       `json:"lineItems,omitempty"`
	Subtotal       json.Number      `json:"subtotal,omitempty"`
	TaxAmount      json.Number      `json:"taxAmount,omitempty"`
	DiscountAmount json.Number      `json:"discountAmount,omitempty"`
	ShippingAmount json.Number      `json:"shippingAmount,omitempty"`
	TotalAmount    json.Number      `json:"totalAmount,omitempty"`
	PONumber       string           `json:"poNumber,omitempty"`
	Reference      string           `json:"reference,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      *timestamp.Value `json:"createdAt,omitempty"`
	UpdatedAt      *timestamp.Value `json:"updatedAt,omitempty"`
}

// LineItem is one invoice line referencing a product.
type LineItem struct {
	ID          string      `json:"id,omitempty"`
	ProductID   string      `json:"productId,omitempty"`
	Description string      `json:"description,omitempty"`
	Quantity    json.Number `json:"quantity,omitempty"`
	UnitPrice   json.Number `json:"unitPrice,omitempty"`
	Subtotal    json.Number `json:"subtotal,omitempty"`
}

// Payment references a customer and, through its allocations, invoices.
type Payment struct {
	ID          string           `json:"id"`
	CustomerID  string           `json:"customerId,omitempty"`
	PaymentDate *timestamp.Value `json:"paymentDate,omitempty"`
	Amount      json.Number      `json:"amount,omitempty"`
	Method      string           `json:"method,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Status      string           `json:"status,omitempty"`
	Allocations []Allocation     `json:"allocations,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	CreatedAt   *timestamp.Value `json:"createdAt,omitempty"`
	UpdatedAt   *timestamp.Value `json:"updatedAt,omitempty"`
}

// Allocation assigns part of a payment to one invoice.
type Allocation struct {
	InvoiceID string      `json:"invoiceId,omitempty"`
	Amount    json.Number `json:"amount,omitempty"`
}

func (p *Product) EntityID() string  { return p.ID }
func (c *Customer) EntityID() string { return c.ID }
func (i *Invoice) EntityID() string  { return i.ID }
func (p *Payment) EntityID() string  { return p.ID }

func (p *Product) SetEntityID(id string)  { p.ID = id }
func (c *Customer) SetEntityID(id string) { c.ID = id }
func (i *Invoice) SetEntityID(id string)  { i.ID = id }
func (p *Payment) SetEntityID(id string)  { p.ID = id }
