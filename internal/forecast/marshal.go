package forecast

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func marshalJSON(dest *datatypes.JSON, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*dest = raw
	return nil
}

func unmarshalInto(raw datatypes.JSON, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
