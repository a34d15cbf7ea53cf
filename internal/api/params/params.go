// Package params decodes JSON-RPC parameters. Methods accept either a named
// object or a positional array whose first element is that object.
package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidParams marks malformed or missing parameters
var ErrInvalidParams = errors.New("invalid params")

// Invalid builds an ErrInvalidParams error
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, fmt.Sprintf(format, args...))
}

// Decode unmarshals named params into dest
func Decode(raw json.RawMessage, dest interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Invalid("missing params")
	}

	if raw[0] == '[' {
		var positional []json.RawMessage
		if err := json.Unmarshal(raw, &positional); err != nil {
			return Invalid("%v", err)
		}
		if len(positional) == 0 {
			return Invalid("missing params")
		}
		raw = positional[0]
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return Invalid("%v", err)
	}
	return nil
}

// Account is the parameter set of methods scoped to one social account
type Account struct {
	AccountID int64 `json:"account_id"`
}

// Validate checks the account id
func (a Account) Validate() error {
	if a.AccountID <= 0 {
		return Invalid("account_id must be a positive integer")
	}
	return nil
}

// AccountID reads {"account_id": N}, [{"account_id": N}] or [N]
func AccountID(raw json.RawMessage) (int64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var ids []int64
		if err := json.Unmarshal(trimmed, &ids); err == nil && len(ids) > 0 {
			a := Account{AccountID: ids[0]}
			return a.AccountID, a.Validate()
		}
	}

	var a Account
	if err := Decode(raw, &a); err != nil {
		return 0, err
	}
	return a.AccountID, a.Validate()
}
