package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastnate-go/seedgen/schema/field"
)

func TestStringBuilder(t *testing.T) {
	f := field.String("email").Unique().MaxLen(255).Comment("login email")
	d := f.Descriptor()

	assert.Equal(t, "email", d.Name)
	assert.Equal(t, field.TypeString, d.Info.Type)
	assert.True(t, d.Unique)
	assert.Equal(t, "login email", d.Comment)
	assert.Len(t, d.Validators, 1)
	assert.Equal(t, "max", d.Validators[0].Kind)
	assert.Equal(t, float64(255), d.Validators[0].Max)
}

func TestOptionalNillableDefault(t *testing.T) {
	f := field.String("nickname").Optional().Nillable().Default("anon")
	d := f.Descriptor()

	assert.True(t, d.Optional)
	assert.True(t, d.Nillable)
	assert.True(t, d.Info.Nillable)
	assert.Equal(t, "anon", d.Default)
}

func TestEnumValues(t *testing.T) {
	f := field.Enum("status").Values("pending", "active", "closed")
	d := f.Descriptor()

	assert.Equal(t, field.TypeEnum, d.Info.Type)
	assert.Equal(t, []string{"pending", "active", "closed"}, d.Info.Values)
}

func TestDecimalPrecision(t *testing.T) {
	f := field.Decimal("price").Precision(10, 2)
	p, s := f.DecimalPrecision()
	assert.Equal(t, 10, p)
	assert.Equal(t, 2, s)
	assert.Equal(t, field.TypeDecimal, f.Descriptor().Info.Type)
}

func TestImmutableAndUpdateDefault(t *testing.T) {
	f := field.Time("created_at").Immutable()
	assert.True(t, f.Descriptor().Immutable)

	u := field.Time("updated_at").UpdateDefault("now")
	assert.Equal(t, "now", u.Descriptor().UpdateDefault)
}

func TestNumericValidators(t *testing.T) {
	f := field.Int64("age").NonNegative().Max(150)
	d := f.Descriptor()
	assert.Len(t, d.Validators, 2)
	assert.Equal(t, "min", d.Validators[0].Kind)
	assert.Equal(t, float64(0), d.Validators[0].Min)
	assert.Equal(t, "max", d.Validators[1].Kind)
	assert.Equal(t, float64(150), d.Validators[1].Max)
}

func TestSchemaTypeOverride(t *testing.T) {
	f := field.Other("amount", nil).SchemaType(map[string]string{"postgres": "numeric(10,2)"})
	assert.Equal(t, "numeric(10,2)", f.Descriptor().SchemaType["postgres"])
}
