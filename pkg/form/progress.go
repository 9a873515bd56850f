package form

import (
	"fmt"
	"slices"
)

// Progress is a visitor's position within a multi-step form: the current step
// and the sorted set of steps they may reach. Progress is a value; each
// transition returns a new one.
type Progress struct {
	Available []int `json:"available"`
	Current   int   `json:"current"`
}

// Start returns the initial progress: step 0, with only step 0 reachable.
func Start() Progress {
	return Progress{Current: 0, Available: []int{0}}
}

// Normalize repairs a progress value loaded from storage against a form with
// stepCount steps. Reachable indices outside the form are dropped, duplicates
// removed, and a current step that is out of range or unreachable restarts the
// form.
func (p Progress) Normalize(stepCount int) Progress {
	avail := make([]int, 0, len(p.Available))
	for _, s := range p.Available {
		if s >= 0 && s < stepCount {
			avail = append(avail, s)
		}
	}
	slices.Sort(avail)
	avail = slices.Compact(avail)
	if p.Current < 0 || p.Current >= stepCount || !slices.Contains(avail, p.Current) {
		return Start()
	}
	return Progress{Current: p.Current, Available: avail}
}

// IsAvailable reports whether step is reachable.
func (p Progress) IsAvailable(step int) bool {
	return slices.Contains(p.Available, step)
}

// CanGoBack reports whether the previous step is reachable.
func (p Progress) CanGoBack() bool {
	return p.Current > 0 && p.IsAvailable(p.Current-1)
}

// Forward moves past the current step. A one-way step collapses the reachable
// set to the next step only. When the current step is the last one, complete
// is true and the returned progress is Start().
func (p Progress) Forward(stepCount int, oneWay bool) (next Progress, complete bool) {
	target := p.Current + 1
	if target >= stepCount {
		return Start(), true
	}
	avail := slices.Clone(p.Available)
	if oneWay {
		avail = []int{target}
	} else if !slices.Contains(avail, target) {
		avail = append(avail, target)
		slices.Sort(avail)
	}
	return Progress{Current: target, Available: avail}, false
}

// Back moves to the previous step. Fails when that step is not reachable.
func (p Progress) Back() (Progress, error) {
	target := p.Current - 1
	if !p.IsAvailable(target) {
		return p, fmt.Errorf("%w: %d", ErrStepNotAvailable, target)
	}
	return Progress{Current: target, Available: slices.Clone(p.Available)}, nil
}

// Jump moves directly to step.
func (p Progress) Jump(step, stepCount int) (Progress, error) {
	if step < 0 || step >= stepCount {
		return p, fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, step, stepCount)
	}
	if !p.IsAvailable(step) {
		return p, fmt.Errorf("%w: %d", ErrStepNotAvailable, step)
	}
	return Progress{Current: step, Available: slices.Clone(p.Available)}, nil
}
