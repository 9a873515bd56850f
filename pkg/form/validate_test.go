package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegear/sitegear/pkg/form"
)

func newContactFields() []*form.Field {
	name := form.NewField("name", form.TypeInput)
	name.AddConditionalConstraint(form.Conditional(form.NotBlank{}), -1)

	email := form.NewField("email", form.TypeInput)
	email.AddConditionalConstraint(form.Conditional(form.NotBlank{}), -1)
	email.AddConditionalConstraint(form.Conditional(form.Email{}), -1)

	phone := form.NewField("phone", form.TypeInput)
	phone.AddConditionalConstraint(form.Conditional(
		form.NotBlank{Message: "Phone is required when calling back."},
		form.InCondition{Field: "contact-method", Values: []string{"phone"}},
	), -1)

	comments := form.NewField("comments", form.TypeTextarea)

	return []*form.Field{name, email, phone, comments}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		values map[string]any
		want   form.Errors
		name   string
	}{
		{
			name: "valid submission",
			values: map[string]any{
				"name":  "Ann",
				"email": "ann@example.com",
			},
			want: form.Errors{},
		},
		{
			name: "missing constrained field",
			values: map[string]any{
				"email": "ann@example.com",
			},
			want: form.Errors{"name": {form.MissingFieldMessage}},
		},
		{
			name: "collects every violated constraint",
			values: map[string]any{
				"name":  "",
				"email": "not-an-email",
			},
			want: form.Errors{
				"name":  {"This value should not be blank."},
				"email": {"This value is not a valid email address."},
			},
		},
		{
			name: "conditional constraint applies when condition matches",
			values: map[string]any{
				"name":           "Ann",
				"email":          "ann@example.com",
				"contact-method": "phone",
				"phone":          "",
			},
			want: form.Errors{"phone": {"Phone is required when calling back."}},
		},
		{
			name: "conditional constraint skipped otherwise",
			values: map[string]any{
				"name":           "Ann",
				"email":          "ann@example.com",
				"contact-method": "email",
			},
			want: form.Errors{},
		},
		{
			name: "extra fields are allowed",
			values: map[string]any{
				"name":    "Ann",
				"email":   "ann@example.com",
				"surplus": "x",
			},
			want: form.Errors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := form.Validate(newContactFields(), tt.values)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) == 0, got.Empty())
		})
	}
}

func TestErrors_Merge(t *testing.T) {
	t.Parallel()

	base := form.Errors{"a": {"one"}, "b": {"two"}}
	merged := base.Merge(form.Errors{"b": {"override"}, "c": {"three"}})

	require.Equal(t, form.Errors{"a": {"one"}, "b": {"override"}, "c": {"three"}}, merged)
	assert.Equal(t, []string{"two"}, base["b"])
}
