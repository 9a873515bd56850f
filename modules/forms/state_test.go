package forms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegear/sitegear/modules/forms"
	"github.com/sitegear/sitegear/pkg/form"
)

func TestSessionKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "forms.enquiry.current-step", forms.SessionKey("enquiry", "current-step"))
}

func TestState_Values(t *testing.T) {
	t.Parallel()

	s := newSession()
	st := forms.NewState(s)

	assert.Empty(t, st.Values("enquiry"))

	st.SetValues("enquiry", map[string]any{"name": "Ada"})
	merged := st.MergeValues("enquiry", map[string]any{"email": "ada@example.com"})
	assert.Equal(t, map[string]any{"name": "Ada", "email": "ada@example.com"}, merged)

	v, ok := st.FieldValue("enquiry", "name")
	require.True(t, ok)
	assert.Equal(t, "Ada", v)

	st.SetFieldValue("enquiry", "name", "Grace")
	assert.Equal(t, "Grace", st.Values("enquiry")["name"])

	values := st.Values("enquiry")
	values["name"] = "mutated"
	assert.Equal(t, "Grace", st.Values("enquiry")["name"], "Values returns a copy")

	st.ClearValues("enquiry")
	assert.Empty(t, st.Values("enquiry"))
}

func TestState_PatchValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		patch   string
		want    map[string]any
		wantErr error
	}{
		{
			name:  "replace and add",
			patch: `[{"op":"replace","path":"/name","value":"Grace"},{"op":"add","path":"/rating","value":"3"}]`,
			want:  map[string]any{"name": "Grace", "rating": "3"},
		},
		{
			name:  "remove",
			patch: `[{"op":"remove","path":"/name"}]`,
			want:  map[string]any{},
		},
		{
			name:  "strips markup",
			patch: `[{"op":"replace","path":"/name","value":"<b>Grace</b>"}]`,
			want:  map[string]any{"name": "Grace"},
		},
		{
			name:    "malformed",
			patch:   `{"op":"remove"}`,
			wantErr: forms.ErrInvalidPatch,
		},
		{
			name:    "missing path",
			patch:   `[{"op":"remove","path":"/missing"}]`,
			wantErr: forms.ErrInvalidPatch,
		},
		{
			name:    "replaces document",
			patch:   `[{"op":"replace","path":"","value":[1,2]}]`,
			wantErr: forms.ErrInvalidPatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := forms.NewState(newSession())
			st.SetValues("enquiry", map[string]any{"name": "Ada"})

			err := st.PatchValues("enquiry", []byte(tt.patch))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "Ada", st.Values("enquiry")["name"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.Values("enquiry"))
		})
	}
}

func TestState_Errors(t *testing.T) {
	t.Parallel()

	st := forms.NewState(newSession())
	st.SetErrors("enquiry", form.Errors{"name": {"required"}, "email": nil})
	assert.Equal(t, form.Errors{"name": {"required"}}, st.Errors("enquiry"))

	st.AddFieldError("enquiry", "email", "invalid")
	assert.Equal(t, []string{"invalid"}, st.FieldErrors("enquiry", "email"))

	st.SetFieldErrors("enquiry", "name", []string{"too short", "too plain"})
	assert.Len(t, st.FieldErrors("enquiry", "name"), 2)

	st.ClearFieldErrors("enquiry", "name")
	assert.Equal(t, form.Errors{"email": {"invalid"}}, st.Errors("enquiry"))

	st.ClearErrors("enquiry")
	assert.Empty(t, st.Errors("enquiry"))
}

func TestState_Progress(t *testing.T) {
	t.Parallel()

	s := newSession()
	st := forms.NewState(s)
	assert.Equal(t, form.Start(), st.Progress("enquiry"))

	st.SetProgress("enquiry", form.Progress{Current: 2, Available: []int{1, 2}})
	assert.Equal(t, form.Progress{Current: 2, Available: []int{1, 2}}, st.Progress("enquiry"))

	// Remote stores hand numbers back as float64.
	s.SetValue(forms.SessionKey("enquiry", "current-step"), float64(1))
	s.SetValue(forms.SessionKey("enquiry", "available-steps"), []any{float64(0), float64(1)})
	assert.Equal(t, form.Progress{Current: 1, Available: []int{0, 1}}, st.Progress("enquiry"))
}

func TestState_Reset(t *testing.T) {
	t.Parallel()

	s := newSession()
	st := forms.NewState(s)
	st.SetValues("enquiry", map[string]any{"name": "Ada"})
	st.SetErrors("enquiry", form.Errors{"email": {"invalid"}})
	st.SetProgress("enquiry", form.Progress{Current: 1, Available: []int{0, 1}})
	st.SetValues("other", map[string]any{"kept": true})

	st.Reset("enquiry")

	for _, sub := range []string{"current-step", "available-steps", "values", "errors"} {
		_, ok := s.GetValue(forms.SessionKey("enquiry", sub))
		assert.False(t, ok, sub)
	}
	assert.Equal(t, map[string]any{"kept": true}, st.Values("other"))
}
