package domain

import "fmt"

// Field names one mutable Record attribute. Values match the JSON keys.
type Field string

const (
	FieldFirstName   Field = "first_name"
	FieldLastName    Field = "last_name"
	FieldUsername    Field = "username"
	FieldEmail       Field = "email"
	FieldPhoneNumber Field = "phone_number"
	FieldGender      Field = "gender"
	FieldType        Field = "type"
)

var fields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldUsername,
	FieldEmail,
	FieldPhoneNumber,
	FieldGender,
	FieldType,
}

// Fields returns the editable field set in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// ParseField resolves a field name.
func ParseField(s string) (Field, error) {
	for _, f := range fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown field %q", ErrInvalidValue, s)
}

// normalize checks v against the semantic type of f. Empty is always
// accepted; it falls back to the baseline on resolve.
func (f Field) normalize(v string) (string, error) {
	if v == "" {
		return v, nil
	}
	switch f {
	case FieldGender:
		g, err := ParseGender(v)
		return string(g), err
	case FieldType:
		r, err := ParseRole(v)
		return string(r), err
	}
	return v, nil
}
