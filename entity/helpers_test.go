package entity

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/fastnate-go/seedgen/schema"
)

// fieldDesc builds a minimal string-typed field descriptor for whitebox
// fixtures whose field holds a string value.
func fieldDesc(name string) *schema.FieldDescriptor {
	return &schema.FieldDescriptor{Name: name, Info: &schema.TypeInfo{Type: schema.TypeString}}
}

// idFieldDesc builds an int64-typed identifier descriptor, so a fixture's
// literal id renders as an integer.
func idFieldDesc(name string) *schema.FieldDescriptor {
	return &schema.FieldDescriptor{Name: name, ID: true, Info: &schema.TypeInfo{Type: schema.TypeInt64}}
}

func newOrderedProps(props ...Property) *orderedmap.OrderedMap[string, Property] {
	om := orderedmap.New[string, Property]()
	for _, p := range props {
		om.Set(p.Name(), p)
	}
	return om
}

func errEntityNotFound(name string) error {
	return fmt.Errorf("entity: no descriptor registered for %q", name)
}
