package records

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// EventData is the semi-structured attribute bag attached to an event.
// Known fields are typed; anything else the tracker sends is preserved in
// Extra so unfamiliar payloads round-trip without loss. Keys present vary
// by event type.
type EventData struct {
	Section      string   `json:"section,omitempty"`
	Item         string   `json:"item,omitempty"`
	Area         string   `json:"area,omitempty"`
	FilterType   string   `json:"filterType,omitempty"`
	FilterValue  string   `json:"filterValue,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Theme        string   `json:"theme,omitempty"`
	Source       string   `json:"source,omitempty"`
	Device       string   `json:"device,omitempty"`
	Browser      string   `json:"browser,omitempty"`
	PageTitle    string   `json:"pageTitle,omitempty"`

	// Extra holds unrecognized fields verbatim.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownDataKeys are the fields with dedicated struct members; everything
// else lands in Extra.
var knownDataKeys = map[string]struct{}{
	"section": {}, "item": {}, "area": {}, "filterType": {}, "filterValue": {},
	"technologies": {}, "theme": {}, "source": {}, "device": {}, "browser": {},
	"pageTitle": {},
}

// IsZero reports whether the bag carries no data at all.
func (d EventData) IsZero() bool {
	return d.Section == "" && d.Item == "" && d.Area == "" &&
		d.FilterType == "" && d.FilterValue == "" &&
		len(d.Technologies) == 0 && d.Theme == "" && d.Source == "" &&
		d.Device == "" && d.Browser == "" && d.PageTitle == "" &&
		len(d.Extra) == 0
}

func (d EventData) MarshalJSON() ([]byte, error) {
	type plain EventData
	base, err := json.Marshal(plain(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if _, known := knownDataKeys[k]; known {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

func (d *EventData) UnmarshalJSON(data []byte) error {
	type plain EventData
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range all {
		if _, known := knownDataKeys[k]; known {
			delete(all, k)
		}
	}
	if len(all) == 0 {
		all = nil
	}

	*d = EventData(p)
	d.Extra = all
	return nil
}

// Value implements driver.Valuer; the bag is stored as a JSON text column.
func (d EventData) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (d *EventData) Scan(value any) error {
	if value == nil {
		*d = EventData{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("records: cannot scan %T into EventData", value)
	}
	if len(raw) == 0 {
		*d = EventData{}
		return nil
	}
	return json.Unmarshal(raw, d)
}
