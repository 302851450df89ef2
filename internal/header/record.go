package header

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// DefaultRecordKey is the preference store key holding the manual login record.
const DefaultRecordKey = "user"

var ErrMalformedRecord = errors.New("malformed preference record")

// Record is the manually persisted stand-in for a login session.
type Record struct {
	FirstName string
}

type rawRecord struct {
	FirstName *string `json:"firstName"`
}

// DecodeRecord parses a stored record. Anything else than a JSON object
// carrying a string "firstName" is reported as ErrMalformedRecord.
func DecodeRecord(data string) (*Record, error) {
	trimmed := bytes.TrimSpace([]byte(data))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.WithStack(ErrMalformedRecord)
	}

	var raw rawRecord
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.Wrap(ErrMalformedRecord, err.Error())
	}

	if raw.FirstName == nil {
		return nil, errors.Wrap(ErrMalformedRecord, "missing first name")
	}

	return &Record{FirstName: *raw.FirstName}, nil
}

func EncodeRecord(r Record) (string, error) {
	data, err := json.Marshal(rawRecord{FirstName: &r.FirstName})
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(data), nil
}
