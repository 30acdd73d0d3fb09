package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// optionalID decodes a reference id that form clients may send as a number,
// a numeric string, an empty string or null. Empty and null leave it unset.
type optionalID struct {
	value *uint
}

func (o *optionalID) UnmarshalJSON(data []byte) error {
	o.value = nil
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}
	s := string(raw)
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid id %s: %w", s, err)
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return fmt.Errorf("invalid id %s", raw)
	}
	id := uint(n)
	o.value = &id
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tenant) UnmarshalJSON(data []byte) error {
	type Alias Tenant
	aux := struct {
		*Alias
		PropertyID optionalID `json:"propertyId"`
	}{Alias: (*Alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.PropertyID = aux.PropertyID.value
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type Alias Transaction
	aux := struct {
		*Alias
		PropertyID optionalID `json:"propertyId"`
		TenantID   optionalID `json:"tenantId"`
	}{Alias: (*Alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.PropertyID = aux.PropertyID.value
	t.TenantID = aux.TenantID.value
	return nil
}
