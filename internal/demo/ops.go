package demo

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/vango-dev/changetree/pkg/notify"
)

var (
	// ErrUnknownOp is returned by Apply for an unregistered operation name.
	ErrUnknownOp = errors.New("demo: unknown operation")

	// ErrNoSuchItem is returned when an operation names a SKU the order does
	// not contain.
	ErrNoSuchItem = errors.New("demo: no such line item")

	// ErrNoCustomer is returned by customer operations on an order without one.
	ErrNoCustomer = errors.New("demo: order has no customer")
)

// Args are the arguments of one operation, as decoded from JSON.
type Args map[string]any

// String returns args[key] as a string, or def if absent.
func (a Args) String(key, def string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns args[key] as an int, or def if absent or not a number.
func (a Args) Int(key string, def int) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Op is a named mutation of an order.
type Op struct {
	Name  string
	Help  string
	Apply func(o *Order, args Args) error
}

var ops = map[string]Op{}

func register(op Op) {
	ops[op.Name] = op
}

// Ops returns the registered operations sorted by name.
func Ops() []Op {
	out := make([]Op, 0, len(ops))
	for _, op := range ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Apply runs the named operation against o.
func Apply(o *Order, name string, args Args) error {
	op, ok := ops[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOp, name)
	}
	return op.Apply(o, args)
}

func init() {
	register(Op{
		Name: "set-status",
		Help: "set the order status {status}",
		Apply: func(o *Order, args Args) error {
			return o.SetStatus(args.String("status", "placed"))
		},
	})

	register(Op{
		Name: "rename-customer",
		Help: "rename the customer {name}",
		Apply: func(o *Order, args Args) error {
			if o.Customer == nil {
				return ErrNoCustomer
			}
			return o.Customer.SetName(args.String("name", o.Customer.Name))
		},
	})

	register(Op{
		Name: "move-customer",
		Help: "edit the customer's address in place {street, city, zip}",
		Apply: func(o *Order, args Args) error {
			if o.Customer == nil {
				return ErrNoCustomer
			}
			addr := o.Customer.Address
			if addr == nil {
				return o.Customer.SetAddress(addressFrom(args))
			}
			if err := addr.SetStreet(args.String("street", addr.Street)); err != nil {
				return err
			}
			if err := addr.SetCity(args.String("city", addr.City)); err != nil {
				return err
			}
			return addr.SetZip(args.String("zip", addr.Zip))
		},
	})

	register(Op{
		Name: "replace-address",
		Help: "give the customer a new address object {street, city, zip}",
		Apply: func(o *Order, args Args) error {
			if o.Customer == nil {
				return ErrNoCustomer
			}
			return o.Customer.SetAddress(addressFrom(args))
		},
	})

	register(Op{
		Name: "replace-customer",
		Help: "attach a different customer {name, email}",
		Apply: func(o *Order, args Args) error {
			return o.SetCustomer(&Customer{
				Name:    args.String("name", "Grace Hopper"),
				Email:   args.String("email", "grace@example.com"),
				Address: addressFrom(args),
			})
		},
	})

	register(Op{
		Name: "remove-customer",
		Help: "detach the customer",
		Apply: func(o *Order, _ Args) error {
			return o.SetCustomer(nil)
		},
	})

	register(Op{
		Name: "add-item",
		Help: "append a line item {sku, quantity, price}",
		Apply: func(o *Order, args Args) error {
			if o.Items == nil {
				if err := o.SetItems(notify.NewCollection[*LineItem]()); err != nil {
					return err
				}
			}
			return o.Items.Add(&LineItem{
				SKU:      args.String("sku", "ITEM-"+strconv.Itoa(o.Items.Len()+1)),
				Quantity: args.Int("quantity", 1),
				Price:    args.Int("price", 100),
			})
		},
	})

	register(Op{
		Name: "remove-item",
		Help: "remove a line item {sku}",
		Apply: func(o *Order, args Args) error {
			li, err := itemFor(o, args)
			if err != nil {
				return err
			}
			_, err = o.Items.Remove(li)
			return err
		},
	})

	register(Op{
		Name: "set-quantity",
		Help: "change the quantity of a line item {sku, quantity}",
		Apply: func(o *Order, args Args) error {
			li, err := itemFor(o, args)
			if err != nil {
				return err
			}
			return li.SetQuantity(args.Int("quantity", li.Quantity+1))
		},
	})

	register(Op{
		Name: "set-price",
		Help: "change the unit price of a line item {sku, price}",
		Apply: func(o *Order, args Args) error {
			li, err := itemFor(o, args)
			if err != nil {
				return err
			}
			return li.SetPrice(args.Int("price", li.Price))
		},
	})

	register(Op{
		Name: "swap-items",
		Help: "move the first line item to the end",
		Apply: func(o *Order, _ Args) error {
			if o.Items == nil || o.Items.Len() < 2 {
				return nil
			}
			return o.Items.Move(0, o.Items.Len()-1)
		},
	})

	register(Op{
		Name: "clear-items",
		Help: "remove every line item",
		Apply: func(o *Order, _ Args) error {
			if o.Items == nil {
				return nil
			}
			return o.Items.Clear()
		},
	})

	register(Op{
		Name: "add-tag",
		Help: "tag the order {tag}",
		Apply: func(o *Order, args Args) error {
			if o.Tags == nil {
				return nil
			}
			return o.Tags.Add(args.String("tag", "gift"))
		},
	})
}

func addressFrom(args Args) *Address {
	return &Address{
		Street: args.String("street", "1 Infinite Loop"),
		City:   args.String("city", "Cupertino"),
		Zip:    args.String("zip", "95014"),
	}
}

func itemFor(o *Order, args Args) (*LineItem, error) {
	sku := args.String("sku", "")
	li, ok := o.Item(sku)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchItem, sku)
	}
	return li, nil
}
