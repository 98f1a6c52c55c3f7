package clint

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type Tag struct {
	Name string `json:"name"`
}

type Contact struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	FullPhone string `json:"fullPhone"`
	Email     string `json:"email"`
	Tags      []Tag  `json:"tags"`
}

// Phone returns the contact number without the leading plus sign.
func (c Contact) Phone() string {
	return strings.ReplaceAll(c.FullPhone, "+", "")
}

func (c Contact) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for _, tag := range c.Tags {
		if tag.Name != "" {
			names = append(names, tag.Name)
		}
	}
	return names
}

// ID accepts both string and numeric identifiers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type listEnvelope struct {
	Data       []Contact `json:"data"`
	TotalCount int       `json:"totalCount"`
}

// decodeContacts accepts either a bare array or an object with a data field.
func decodeContacts(body []byte) ([]Contact, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []Contact{}, nil
	}

	if body[0] == '[' {
		var contacts []Contact
		if err := json.Unmarshal(body, &contacts); err != nil {
			return nil, err
		}
		return contacts, nil
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return []Contact{}, nil
	}
	return envelope.Data, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
