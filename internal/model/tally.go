package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tally is the raw text of one grid cell. It decodes from a JSON string,
// number or null so that older documents storing numbers still load.
type Tally string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tally) UnmarshalJSON(data []byte) error {
	s, err := flexString(data)
	if err != nil {
		return err
	}
	*t = Tally(s)
	return nil
}

// IsEmpty reports whether the cell holds no text.
func (t Tally) IsEmpty() bool {
	return strings.TrimSpace(string(t)) == ""
}

// Count parses the cell as a sheep count.
func (t Tally) Count() int {
	return ParseCount(string(t))
}

// Hours is a decimal hours value kept as entered.
type Hours string

// UnmarshalJSON implements json.Unmarshaler.
func (h *Hours) UnmarshalJSON(data []byte) error {
	s, err := flexString(data)
	if err != nil {
		return err
	}
	*h = Hours(s)
	return nil
}

// IsEmpty reports whether no hours were entered.
func (h Hours) IsEmpty() bool {
	return strings.TrimSpace(string(h)) == ""
}

// Decimal parses the hours, treating anything unparseable as zero.
func (h Hours) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(h)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseCount parses the leading integer of a cell the way a spreadsheet user
// expects: surrounding space is ignored, "12 ewes" is 12, and empty or
// non-numeric text is 0. Negative values are accepted.
func ParseCount(value string) int {
	value = strings.TrimSpace(value)
	end := 0
	if end < len(value) && (value[end] == '-' || value[end] == '+') {
		end++
	}
	digits := end
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return n
}

func flexString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// TallyRecord is the canonical per-shearer tuple every stored document shape
// is normalized into before aggregation.
type TallyRecord struct {
	Date        time.Time
	ShearerName string
	SheepType   string
	Count       int
	Dated       bool
}
