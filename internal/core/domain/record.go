package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Gender is the enumerated gender attribute of a Record.
type Gender string

const (
	GenderMale      Gender = "masculino"
	GenderFemale    Gender = "femenino"
	GenderNonBinary Gender = "no binario"
	GenderOther     Gender = "otros"
)

var genders = []Gender{GenderMale, GenderFemale, GenderNonBinary, GenderOther}

// Role is the enumerated user type of a Record.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleMember Role = "member"
)

var roles = []Role{RoleAdmin, RoleUser, RoleMember}

// ParseGender matches s case-insensitively against the gender set.
func ParseGender(s string) (Gender, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, g := range genders {
		if string(g) == needle {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: gender %q", ErrInvalidValue, s)
}

// ParseRole matches s case-insensitively against the role set.
func ParseRole(s string) (Role, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, r := range roles {
		if string(r) == needle {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: type %q", ErrInvalidValue, s)
}

// PhoneNumber is kept as text. The registry stores it as a number, so
// decoding accepts either a JSON string or a JSON number.
type PhoneNumber string

func (p *PhoneNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PhoneNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("phone_number: %w", err)
	}
	*p = PhoneNumber(n.String())
	return nil
}

// Record is one user entry of the remote registry.
type Record struct {
	UserID      int64       `json:"user_id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	PhoneNumber PhoneNumber `json:"phone_number"`
	Gender      Gender      `json:"gender"`
	Type        Role        `json:"type"`
}

// DisplayName is used in confirmation prompts.
func (r Record) DisplayName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Get returns the textual value of f.
func (r Record) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return r.FirstName
	case FieldLastName:
		return r.LastName
	case FieldUsername:
		return r.Username
	case FieldEmail:
		return r.Email
	case FieldPhoneNumber:
		return string(r.PhoneNumber)
	case FieldGender:
		return string(r.Gender)
	case FieldType:
		return string(r.Type)
	}
	return ""
}

// set assigns an already-normalized value to f.
func (r *Record) set(f Field, v string) {
	switch f {
	case FieldFirstName:
		r.FirstName = v
	case FieldLastName:
		r.LastName = v
	case FieldUsername:
		r.Username = v
	case FieldEmail:
		r.Email = v
	case FieldPhoneNumber:
		r.PhoneNumber = PhoneNumber(v)
	case FieldGender:
		r.Gender = Gender(v)
	case FieldType:
		r.Type = Role(v)
	}
}

// Patch is the partial body sent on update. Empty attributes are omitted.
type Patch struct {
	FirstName   string      `json:"first_name,omitempty"`
	LastName    string      `json:"last_name,omitempty"`
	Username    string      `json:"username,omitempty"`
	Email       string      `json:"email,omitempty"`
	PhoneNumber PhoneNumber `json:"phone_number,omitempty"`
	Gender      Gender      `json:"gender,omitempty"`
	Type        Role        `json:"type,omitempty"`
}

// PatchOf builds the update body carrying every mutable attribute of r.
func PatchOf(r Record) Patch {
	return Patch{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Username:    r.Username,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Gender:      r.Gender,
		Type:        r.Type,
	}
}

// NewUser is the registration payload. Password is write-only.
type NewUser struct {
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Username        string      `json:"username"`
	Email           string      `json:"email"`
	PhoneNumber     PhoneNumber `json:"phone_number"`
	Password        string      `json:"password"`
	Gender          Gender      `json:"gender"`
	Type            Role        `json:"type"`
	MarketingAccept bool        `json:"marketing_accept"`
}

// Normalize canonicalizes the enumerated attributes.
func (u NewUser) Normalize() (NewUser, error) {
	g, err := ParseGender(string(u.Gender))
	if err != nil {
		return u, err
	}
	r, err := ParseRole(string(u.Type))
	if err != nil {
		return u, err
	}
	u.Gender = g
	u.Type = r
	return u, nil
}
