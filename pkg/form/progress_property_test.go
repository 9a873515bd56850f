//go:build property

package form_test

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sitegear/sitegear/pkg/form"
)

// walk applies ops to a fresh progress and reports whether every invariant
// held after each transition. Op 0 is back, 1-9 forward, 10+ jump to op-10.
func walk(steps int, oneWay []bool, ops []int) bool {
	p := form.Start()
	passedOneWay := map[int]bool{}

	for _, op := range ops {
		switch {
		case op == 0:
			if next, err := p.Back(); err == nil {
				p = next
			}
		case op < 10:
			ow := oneWay[p.Current%len(oneWay)]
			next, done := p.Forward(steps, ow)
			if done {
				clear(passedOneWay)
			} else if ow {
				passedOneWay[p.Current] = true
			}
			p = next
		default:
			if next, err := p.Jump(op-10, steps); err == nil {
				p = next
			}
		}

		if p.Current < 0 || p.Current >= steps {
			return false
		}
		if !p.IsAvailable(p.Current) {
			return false
		}
		if !slices.IsSorted(p.Available) || len(slices.Compact(slices.Clone(p.Available))) != len(p.Available) {
			return false
		}
		for s := range passedOneWay {
			if p.IsAvailable(s) {
				return false
			}
		}
	}
	return true
}

func TestProgressProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("current step stays in range and one-way steps stay closed", prop.ForAll(
		func(steps int, oneWay []bool, ops []int) bool {
			return walk(steps, oneWay, ops)
		},
		gen.IntRange(1, 8),
		gen.SliceOfN(8, gen.Bool()),
		gen.SliceOf(gen.IntRange(0, 18)),
	))

	properties.Property("jump never changes the reachable set", prop.ForAll(
		func(steps, target int) bool {
			p := form.Start()
			for range steps - 1 {
				p, _ = p.Forward(steps, false)
			}
			next, err := p.Jump(target, steps)
			if err != nil {
				return slices.Equal(next.Available, p.Available) && next.Current == p.Current
			}
			return slices.Equal(next.Available, p.Available) && next.Current == target
		},
		gen.IntRange(1, 8),
		gen.IntRange(-2, 10),
	))

	properties.TestingRun(t)
}
