package demo

import "fmt"

// Step is one operation of a scenario.
type Step struct {
	Op   string `json:"op"`
	Args Args   `json:"args,omitempty"`
}

// String returns the step as "op {args}".
func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Op
	}
	return fmt.Sprintf("%s %v", s.Op, map[string]any(s.Args))
}

// Scenario walks the sample order through every kind of change: plain
// properties at each depth, replaced objects, collection membership and
// mutations inside collection members.
func Scenario() []Step {
	return []Step{
		{Op: "set-status", Args: Args{"status": "placed"}},
		{Op: "rename-customer", Args: Args{"name": "Ada King"}},
		{Op: "move-customer", Args: Args{"city": "Oxford"}},
		{Op: "replace-address", Args: Args{"street": "1 Parks Road", "city": "Oxford", "zip": "OX1 3PG"}},
		{Op: "move-customer", Args: Args{"zip": "OX1 3QD"}},
		{Op: "set-quantity", Args: Args{"sku": "PEN-002", "quantity": 5}},
		{Op: "add-item", Args: Args{"sku": "INK-003", "quantity": 2, "price": 450}},
		{Op: "set-price", Args: Args{"sku": "INK-003", "price": 400}},
		{Op: "swap-items"},
		{Op: "remove-item", Args: Args{"sku": "BOOK-001"}},
		{Op: "add-tag", Args: Args{"tag": "gift"}},
		{Op: "replace-customer", Args: Args{"name": "Grace Hopper"}},
		{Op: "clear-items"},
	}
}

// Run applies steps to o in order. before is called ahead of each step.
// It stops at the first failing step.
func Run(o *Order, steps []Step, before func(i int, s Step)) error {
	for i, s := range steps {
		if before != nil {
			before(i, s)
		}
		if err := Apply(o, s.Op, s.Args); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s.Op, err)
		}
	}
	return nil
}
