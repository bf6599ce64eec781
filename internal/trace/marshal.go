package trace

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// marshalInto encodes v into *dest as datatypes.JSON. A nil v leaves dest
// untouched (the column stays null) rather than writing the literal "null".
func marshalInto(dest *datatypes.JSON, v any) error {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*dest = datatypes.JSON(b)
	return nil
}
