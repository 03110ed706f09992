package runtime

import (
	"strings"

	"github.com/aretw0/scorm/pkg/domain"
)

type registration struct {
	op       domain.Operation
	element  string
	filtered bool
	callback domain.Callback
}

// Bus fans operation notifications out to listeners in registration order.
type Bus struct {
	aliases map[string]domain.Operation
	regs    []registration
}

// NewBus creates a bus. aliases maps variant API names onto runtime operations, so
// "LMSSetValue.cmi.core.score.raw" registers for SetValue.
func NewBus(aliases map[string]domain.Operation) *Bus {
	return &Bus{aliases: aliases}
}

// parse splits "Operation" or "Operation.element.path".
func (b *Bus) parse(token string) registration {
	name, element, filtered := strings.Cut(token, ".")
	op := domain.Operation(name)
	if alias, ok := b.aliases[name]; ok {
		op = alias
	}
	return registration{op: op, element: element, filtered: filtered}
}

// On registers callback under every space-separated token of pattern and returns
// the number of registrations added.
func (b *Bus) On(pattern string, callback domain.Callback) int {
	if callback == nil {
		return 0
	}
	n := 0
	for _, token := range strings.Fields(pattern) {
		reg := b.parse(token)
		reg.callback = callback
		b.regs = append(b.regs, reg)
		n++
	}
	return n
}

// Clear removes the registrations matching the tokens of pattern exactly. A bare
// operation token removes only unfiltered registrations.
func (b *Bus) Clear(pattern string) int {
	removed := 0
	for _, token := range strings.Fields(pattern) {
		target := b.parse(token)
		kept := b.regs[:0]
		for _, reg := range b.regs {
			if reg.op == target.op && reg.filtered == target.filtered && reg.element == target.element {
				removed++
				continue
			}
			kept = append(kept, reg)
		}
		b.regs = kept
	}
	return removed
}

// Len returns the number of registrations.
func (b *Bus) Len() int {
	return len(b.regs)
}

// Match returns the callbacks registered for op and element, in registration order.
func (b *Bus) Match(op domain.Operation, element string) []domain.Callback {
	var out []domain.Callback
	for _, reg := range b.regs {
		if reg.op != op {
			continue
		}
		if reg.filtered && reg.element != element {
			continue
		}
		out = append(out, reg.callback)
	}
	return out
}

// Notify calls every matching listener synchronously. Panics propagate to the caller.
func (b *Bus) Notify(op domain.Operation, element, value string) {
	for _, cb := range b.Match(op, element) {
		cb(element, value)
	}
}
