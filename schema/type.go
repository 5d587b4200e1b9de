package schema

// Type enumerates the primitive value kinds a field descriptor can carry.
type Type int

const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeInt
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeUint
	TypeFloat32
	TypeFloat64
	TypeDecimal
	TypeString
	TypeText
	TypeBytes
	TypeTime
	TypeUUID
	TypeEnum
	TypeJSON
	TypeOther
	TypeValueScanner
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeInt:
		return "int"
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeUint:
		return "uint"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	case TypeDecimal:
		return "decimal"
	case TypeString:
		return "string"
	case TypeText:
		return "text"
	case TypeBytes:
		return "bytes"
	case TypeTime:
		return "time"
	case TypeUUID:
		return "uuid"
	case TypeEnum:
		return "enum"
	case TypeJSON:
		return "json"
	case TypeOther:
		return "other"
	case TypeValueScanner:
		return "value_scanner"
	default:
		return "invalid"
	}
}

// Numeric reports whether t is one of the integer or floating-point kinds.
func (t Type) Numeric() bool {
	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64, TypeInt,
		TypeUint8, TypeUint16, TypeUint32, TypeUint64, TypeUint,
		TypeFloat32, TypeFloat64, TypeDecimal:
		return true
	default:
		return false
	}
}
