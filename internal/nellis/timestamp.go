package nellis

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp handles the marketplace's two date encodings: a plain ISO-8601
// string, or the tagged wrapper {"__type":"Date","value":"<iso-string>"}.
// Both decode to the same instant. Encoding produces the tagged form for
// wire compatibility with the source system.
type Timestamp struct {
	time.Time
}

// taggedDate is the wrapper shape some payload fields use.
type taggedDate struct {
	Type  string `json:"__type"`
	Value string `json:"value"`
}

// UnmarshalJSON tries the tagged wrapper shape first, then a plain string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tagged taggedDate
	if err := json.Unmarshal(data, &tagged); err == nil && tagged.Type == "Date" {
		parsed, err := time.Parse(time.RFC3339, tagged.Value)
		if err != nil {
			return fmt.Errorf("parse tagged date %q: %w", tagged.Value, err)
		}
		t.Time = parsed
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date is neither tagged wrapper nor string: %s", string(data))
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON emits the tagged wrapper form.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(taggedDate{
		Type:  "Date",
		Value: t.UTC().Format(time.RFC3339Nano),
	})
}
