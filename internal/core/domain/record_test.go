package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPhoneNumber_DecodesStringOrNumber(t *testing.T) {
	cases := map[string]PhoneNumber{
		`{"user_id":1,"phone_number":"300 123"}`: "300 123",
		`{"user_id":1,"phone_number":3001234567}`: "3001234567",
		`{"user_id":1,"phone_number":null}`:       "",
		`{"user_id":1}`:                           "",
	}
	for in, want := range cases {
		var r Record
		if err := json.Unmarshal([]byte(in), &r); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if r.PhoneNumber != want {
			t.Errorf("%s: got %q want %q", in, r.PhoneNumber, want)
		}
	}
}

func TestPhoneNumber_RejectsObjects(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"phone_number":{"n":1}}`), &r); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestParseGenderAndRole(t *testing.T) {
	if g, err := ParseGender(" Femenino "); err != nil || g != GenderFemale {
		t.Fatalf("got %q %v", g, err)
	}
	if _, err := ParseGender("x"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if r, err := ParseRole("ADMIN"); err != nil || r != RoleAdmin {
		t.Fatalf("got %q %v", r, err)
	}
	if _, err := ParseRole(""); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields() {
		got, err := ParseField(string(f))
		if err != nil || got != f {
			t.Fatalf("%s: got %q %v", f, got, err)
		}
	}
	if _, err := ParseField("user_id"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("user_id must not be editable, got %v", err)
	}
}

func TestPatchOf_OmitsEmpty(t *testing.T) {
	p := PatchOf(Record{UserID: 1, FirstName: "A"})
	b, _ := json.Marshal(p)
	if string(b) != `{"first_name":"A"}` {
		t.Fatalf("unexpected patch body %s", b)
	}
}

func TestRowState_Transitions(t *testing.T) {
	allowed := []struct{ from, to RowState }{
		{RowViewing, RowEditing},
		{RowViewing, RowDeleting},
		{RowEditing, RowViewing},
		{RowEditing, RowSaving},
		{RowSaving, RowViewing},
		{RowSaving, RowEditing},
		{RowDeleting, RowViewing},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}
	denied := []struct{ from, to RowState }{
		{RowViewing, RowSaving},
		{RowEditing, RowEditing},
		{RowSaving, RowDeleting},
		{RowDeleting, RowSaving},
	}
	for _, tc := range denied {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("%s -> %s should be denied", tc.from, tc.to)
		}
	}
}
