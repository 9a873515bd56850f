package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegear/sitegear/pkg/form"
)

func TestStart(t *testing.T) {
	t.Parallel()

	p := form.Start()
	assert.Equal(t, 0, p.Current)
	assert.Equal(t, []int{0}, p.Available)
	assert.False(t, p.CanGoBack())
}

func TestProgress_Forward(t *testing.T) {
	t.Parallel()

	t.Run("adds next step to reachable set", func(t *testing.T) {
		t.Parallel()

		p, done := form.Start().Forward(3, false)
		require.False(t, done)
		assert.Equal(t, 1, p.Current)
		assert.Equal(t, []int{0, 1}, p.Available)
		assert.True(t, p.CanGoBack())
	})

	t.Run("one-way step collapses reachable set", func(t *testing.T) {
		t.Parallel()

		p, _ := form.Start().Forward(4, false)
		p, done := p.Forward(4, true)
		require.False(t, done)
		assert.Equal(t, 2, p.Current)
		assert.Equal(t, []int{2}, p.Available)
		assert.False(t, p.CanGoBack())
	})

	t.Run("last step completes and restarts", func(t *testing.T) {
		t.Parallel()

		p, _ := form.Start().Forward(2, false)
		p, done := p.Forward(2, false)
		require.True(t, done)
		assert.Equal(t, form.Start(), p)
	})

	t.Run("single step form completes immediately", func(t *testing.T) {
		t.Parallel()

		_, done := form.Start().Forward(1, true)
		assert.True(t, done)
	})

	t.Run("does not mutate receiver", func(t *testing.T) {
		t.Parallel()

		p := form.Progress{Current: 1, Available: []int{0, 1}}
		_, _ = p.Forward(3, false)
		assert.Equal(t, []int{0, 1}, p.Available)
	})
}

func TestProgress_Back(t *testing.T) {
	t.Parallel()

	t.Run("moves to reachable previous step", func(t *testing.T) {
		t.Parallel()

		p := form.Progress{Current: 2, Available: []int{0, 1, 2}}
		p, err := p.Back()
		require.NoError(t, err)
		assert.Equal(t, 1, p.Current)
		assert.Equal(t, []int{0, 1, 2}, p.Available)
	})

	t.Run("rejects unreachable previous step", func(t *testing.T) {
		t.Parallel()

		p := form.Progress{Current: 2, Available: []int{2}}
		_, err := p.Back()
		require.ErrorIs(t, err, form.ErrStepNotAvailable)
	})

	t.Run("rejects back from first step", func(t *testing.T) {
		t.Parallel()

		_, err := form.Start().Back()
		require.ErrorIs(t, err, form.ErrStepNotAvailable)
	})
}

func TestProgress_Jump(t *testing.T) {
	t.Parallel()

	p := form.Progress{Current: 2, Available: []int{0, 2}}

	tests := []struct {
		name    string
		step    int
		wantErr error
	}{
		{name: "reachable step", step: 0},
		{name: "current step", step: 2},
		{name: "unreachable step", step: 1, wantErr: form.ErrStepNotAvailable},
		{name: "negative step", step: -1, wantErr: form.ErrStepOutOfRange},
		{name: "past last step", step: 3, wantErr: form.ErrStepOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := p.Jump(tt.step, 3)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, p, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.step, got.Current)
		})
	}
}

func TestProgress_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   form.Progress
		want form.Progress
	}{
		{
			name: "valid progress kept",
			in:   form.Progress{Current: 1, Available: []int{1, 0}},
			want: form.Progress{Current: 1, Available: []int{0, 1}},
		},
		{
			name: "drops out of range and duplicate steps",
			in:   form.Progress{Current: 1, Available: []int{1, 1, 5, -2}},
			want: form.Progress{Current: 1, Available: []int{1}},
		},
		{
			name: "current out of range restarts",
			in:   form.Progress{Current: 7, Available: []int{0, 7}},
			want: form.Start(),
		},
		{
			name: "unreachable current restarts",
			in:   form.Progress{Current: 1, Available: []int{0}},
			want: form.Start(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.in.Normalize(3))
		})
	}
}
