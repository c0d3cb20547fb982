package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestIDUnmarshalAcceptsStringsAndNumbers(t *testing.T) {
	var got struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"0192-abc","b":1729432342123,"c":null}`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.A != "0192-abc" {
		t.Fatalf("string id: %q", got.A)
	}
	if got.B != "1729432342123" {
		t.Fatalf("numeric id must keep its decimal literal, got %q", got.B)
	}
	if !got.C.IsZero() {
		t.Fatalf("null id should be zero, got %q", got.C)
	}
}

func TestIDMarshalIsAlwaysString(t *testing.T) {
	b, err := json.Marshal(Task{ID: "1729432342123", Description: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"1729432342123","description":"x","completed":false}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
}

func TestIDUnmarshalRejectsOtherTypes(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`true`), &id); err == nil {
		t.Fatalf("expected error for boolean id")
	}
	if err := json.Unmarshal([]byte(`{"x":1}`), &id); err == nil {
		t.Fatalf("expected error for object id")
	}
}

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	cases := map[error]error{
		NotFoundError{Entity: KindTask, Key: "t1"}:       ErrNotFound,
		ValidationError{Field: "project name"}:           ErrValidation,
		DuplicateError{Entity: KindCategory, Key: "Lab"}: ErrDuplicate,
	}
	for err, sentinel := range cases {
		if !errors.Is(err, sentinel) {
			t.Fatalf("%v should match %v", err, sentinel)
		}
	}
	if msg := (ValidationError{Field: "task description"}).Error(); msg != "task description cannot be empty" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := (ValidationError{Field: "week number", Reason: "is out of range"}).Error(); msg != "week number is out of range" {
		t.Fatalf("unexpected message %q", msg)
	}
}
