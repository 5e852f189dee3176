// Package demo holds a sample order graph built on notifying types, the
// named mutations the CLI and the HTTP server apply to it, and a scripted
// scenario that touches every kind of change.
package demo

import (
	"github.com/vango-dev/changetree/pkg/notify"
)

// Address is a postal address.
type Address struct {
	notify.Object

	Street string
	City   string
	Zip    string
}

func (a *Address) SetStreet(v string) error {
	_, err := notify.SetField(&a.Object, &a.Street, v, "Street")
	return err
}

func (a *Address) SetCity(v string) error {
	_, err := notify.SetField(&a.Object, &a.City, v, "City")
	return err
}

func (a *Address) SetZip(v string) error {
	_, err := notify.SetField(&a.Object, &a.Zip, v, "Zip")
	return err
}

// Customer places orders.
type Customer struct {
	notify.Object

	Name    string
	Email   string
	Address *Address
}

func (c *Customer) SetName(v string) error {
	_, err := notify.SetField(&c.Object, &c.Name, v, "Name")
	return err
}

func (c *Customer) SetEmail(v string) error {
	_, err := notify.SetField(&c.Object, &c.Email, v, "Email")
	return err
}

func (c *Customer) SetAddress(v *Address) error {
	_, err := notify.SetField(&c.Object, &c.Address, v, "Address")
	return err
}

// LineItem is one product line of an order. Price is in cents.
type LineItem struct {
	notify.Object

	SKU      string
	Quantity int
	Price    int
}

func (li *LineItem) SetQuantity(v int) error {
	_, err := notify.SetField(&li.Object, &li.Quantity, v, "Quantity")
	return err
}

func (li *LineItem) SetPrice(v int) error {
	_, err := notify.SetField(&li.Object, &li.Price, v, "Price")
	return err
}

// Order is the root of the sample graph.
type Order struct {
	notify.Object

	ID       string
	Status   string
	Customer *Customer
	Items    *notify.Collection[*LineItem]
	Tags     *notify.Collection[string]
}

func (o *Order) SetStatus(v string) error {
	_, err := notify.SetField(&o.Object, &o.Status, v, "Status")
	return err
}

func (o *Order) SetCustomer(v *Customer) error {
	_, err := notify.SetField(&o.Object, &o.Customer, v, "Customer")
	return err
}

func (o *Order) SetItems(v *notify.Collection[*LineItem]) error {
	_, err := notify.SetField(&o.Object, &o.Items, v, "Items")
	return err
}

// Item returns the first line item with sku.
func (o *Order) Item(sku string) (*LineItem, bool) {
	if o.Items == nil {
		return nil, false
	}
	for _, li := range o.Items.Values() {
		if li.SKU == sku {
			return li, true
		}
	}
	return nil, false
}

// Total returns the order total in cents.
func (o *Order) Total() int {
	if o.Items == nil {
		return 0
	}
	total := 0
	for _, li := range o.Items.Values() {
		total += li.Quantity * li.Price
	}
	return total
}

// NewSampleOrder returns a small order with one customer and two lines.
func NewSampleOrder() *Order {
	return &Order{
		ID:     "ord-1001",
		Status: "draft",
		Customer: &Customer{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			Address: &Address{
				Street: "12 St James's Square",
				City:   "London",
				Zip:    "SW1Y 4JH",
			},
		},
		Items: notify.NewCollection(
			&LineItem{SKU: "BOOK-001", Quantity: 1, Price: 2500},
			&LineItem{SKU: "PEN-002", Quantity: 3, Price: 150},
		),
		Tags: notify.NewCollection("priority"),
	}
}
