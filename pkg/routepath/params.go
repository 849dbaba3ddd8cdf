package routepath

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Parameter types accepted in the ":name:type" pattern syntax.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeUint   = "uint"
	TypeUUID   = "uuid"
)

func knownType(t string) bool {
	switch t {
	case TypeString, TypeInt, TypeUint, TypeUUID:
		return true
	}
	return false
}

// ValidateParam validates a parameter value against its declared type.
func ValidateParam(value, paramType string) error {
	switch paramType {
	case TypeInt:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
	case TypeUint:
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
	case TypeUUID:
		if _, err := uuid.Parse(value); err != nil {
			return fmt.Errorf("invalid UUID: %s", value)
		}
	}
	return nil
}
