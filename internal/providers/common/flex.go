package common

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString decodes a JSON string or number into a string. Providers are
// inconsistent about the type of ids and counts; any other JSON value
// decodes to "".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*f = FlexString(value)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return err
		}
		*f = FlexString(number.String())
	default:
		*f = ""
	}
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Int parses the value with ParseGroupedInt semantics and also accepts
// decimal numbers by truncating them.
func (f FlexString) Int() int {
	if value := ParseGroupedInt(string(f)); value > 0 {
		return value
	}
	parsed, err := strconv.ParseFloat(string(f), 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return int(parsed)
}
