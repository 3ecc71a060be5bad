package request

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func strp(s string) *string { return &s }

func TestReadBody(t *testing.T) {
	tests := []struct {
		name string
		req  *http.Request
		want BodyKind
	}{
		{"no body", httptest.NewRequest(http.MethodGet, "/", nil), BodyAbsent},
		{"zero length", httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), BodyAbsent},
		{"text", httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)), BodyText},
		{"binary", httptest.NewRequest(http.MethodPost, "/", strings.NewReader("\xff\xfe\x00")), BodyBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := ReadBody(tt.req, 0)
			if err != nil {
				t.Fatalf("ReadBody: %v", err)
			}
			if body.Kind != tt.want {
				t.Errorf("expected kind %v, got %v", tt.want, body.Kind)
			}
		})
	}
}

func TestReadBody_NilBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Body = nil
	body, err := ReadBody(req, 0)
	if err != nil {
		t.Fatalf("ReadBody: %v", err)
	}
	if body.Kind != BodyAbsent {
		t.Errorf("expected absent, got %v", body.Kind)
	}
}

func TestReadBody_ReadsPastOneMiB(t *testing.T) {
	payload := `{"note":"` + strings.Repeat("a", 2<<20) + `","message":"m"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))

	body, err := ReadBody(req, 0)
	if err != nil {
		t.Fatalf("ReadBody: %v", err)
	}
	if len(body.Bytes) != len(payload) {
		t.Fatalf("expected %d bytes, got %d", len(payload), len(body.Bytes))
	}
	if got := Interpret(body); got.Status != StatusParsed {
		t.Errorf("expected large JSON body to parse, got %v (%v)", got.Status, got.Err)
	}
}

func TestReadBody_OverLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"`+strings.Repeat("a", 64)+`"}`))

	_, err := ReadBody(req, 32)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 32)))
	if _, err := ReadBody(req, 32); err != nil {
		t.Errorf("body exactly at the limit should be accepted: %v", err)
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name   string
		body   Body
		status BodyStatus
		want   *InboundData
	}{
		{"absent", Body{Kind: BodyAbsent}, StatusEmpty, nil},
		{"zero length bytes", Body{Kind: BodyBinary, Bytes: []byte{}}, StatusEmpty, nil},
		{"empty object", Body{Kind: BodyText, Bytes: []byte(`{}`)}, StatusParsed, &InboundData{}},
		{
			"all fields",
			Body{Kind: BodyText, Bytes: []byte(`{"phone":"254700000000","message":"hi","sender_id":"X"}`)},
			StatusParsed,
			&InboundData{Phone: strp("254700000000"), Message: strp("hi"), SenderID: strp("X")},
		},
		{
			"unknown fields ignored",
			Body{Kind: BodyText, Bytes: []byte(`{"phone":"1","extra":{"nested":true}}`)},
			StatusParsed,
			&InboundData{Phone: strp("1")},
		},
		{
			"null field is absent",
			Body{Kind: BodyText, Bytes: []byte(`{"phone":null,"message":"m"}`)},
			StatusParsed,
			&InboundData{Message: strp("m")},
		},
		{
			"binary json",
			Body{Kind: BodyBinary, Bytes: []byte(` {"sender_id":"S"}`)},
			StatusParsed,
			&InboundData{SenderID: strp("S")},
		},
		{
			"keys match case-sensitively",
			Body{Kind: BodyText, Bytes: []byte(`{"PHONE":"254711111111","Message":"x","Sender_Id":"Y"}`)},
			StatusParsed,
			&InboundData{},
		},
		{
			"exact keys beside wrong-case keys",
			Body{Kind: BodyText, Bytes: []byte(`{"Phone":"9","phone":"1","message":"m"}`)},
			StatusParsed,
			&InboundData{Phone: strp("1"), Message: strp("m")},
		},
		{
			"repeated unknown key is fine",
			Body{Kind: BodyText, Bytes: []byte(`{"note":1,"note":2,"message":"m"}`)},
			StatusParsed,
			&InboundData{Message: strp("m")},
		},
		{"repeated phone", Body{Kind: BodyText, Bytes: []byte(`{"phone":"1","phone":"2","message":"m"}`)}, StatusUnstructured, nil},
		{"repeated key with null", Body{Kind: BodyText, Bytes: []byte(`{"sender_id":null,"sender_id":"S"}`)}, StatusUnstructured, nil},
		{"trailing whitespace", Body{Kind: BodyText, Bytes: []byte("{\"message\":\"m\"}\n  ")}, StatusParsed, &InboundData{Message: strp("m")}},
		{"two objects", Body{Kind: BodyText, Bytes: []byte(`{}{}`)}, StatusUnstructured, nil},
		{"plain text", Body{Kind: BodyText, Bytes: []byte("hello there")}, StatusUnstructured, nil},
		{"json null", Body{Kind: BodyText, Bytes: []byte("null")}, StatusUnstructured, nil},
		{"json array", Body{Kind: BodyText, Bytes: []byte(`[{"phone":"1"}]`)}, StatusUnstructured, nil},
		{"wrong field type", Body{Kind: BodyText, Bytes: []byte(`{"phone":254700}`)}, StatusUnstructured, nil},
		{"truncated object", Body{Kind: BodyText, Bytes: []byte(`{"phone":"1"`)}, StatusUnstructured, nil},
		{"trailing garbage", Body{Kind: BodyText, Bytes: []byte(`{} x`)}, StatusUnstructured, nil},
		{"whitespace only", Body{Kind: BodyText, Bytes: []byte("  \n")}, StatusUnstructured, nil},
		{"invalid utf8", Body{Kind: BodyBinary, Bytes: []byte{0xff, 0x00}}, StatusUnstructured, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpret(tt.body)
			if got.Status != tt.status {
				t.Fatalf("expected status %v, got %v (err=%v)", tt.status, got.Status, got.Err)
			}
			if tt.want == nil {
				if got.Data != nil {
					t.Errorf("expected no data, got %+v", got.Data)
				}
				return
			}
			if got.Data == nil {
				t.Fatal("expected data, got nil")
			}
			assertField(t, "phone", got.Data.Phone, tt.want.Phone)
			assertField(t, "message", got.Data.Message, tt.want.Message)
			assertField(t, "sender_id", got.Data.SenderID, tt.want.SenderID)
		})
	}
}

func TestInterpret_UnstructuredCarriesError(t *testing.T) {
	got := Interpret(Body{Kind: BodyText, Bytes: []byte("null")})
	if !errors.Is(got.Err, errNotObject) {
		t.Errorf("expected errNotObject, got %v", got.Err)
	}

	got = Interpret(Body{Kind: BodyText, Bytes: []byte(`{"phone":`)})
	if got.Err == nil {
		t.Error("expected decode error")
	}

	got = Interpret(Body{Kind: BodyAbsent})
	if got.Err != nil {
		t.Errorf("empty body should carry no error, got %v", got.Err)
	}
}

func TestPreview(t *testing.T) {
	s, ok := Preview([]byte("héllo world"), 5)
	if !ok || s != "héllo" {
		t.Errorf("Preview = %q, %v", s, ok)
	}
	s, ok = Preview([]byte("short"), 200)
	if !ok || s != "short" {
		t.Errorf("Preview = %q, %v", s, ok)
	}
	if _, ok := Preview([]byte{0xff}, 10); ok {
		t.Error("expected ok=false for invalid UTF-8")
	}
}

func assertField(t *testing.T, name string, got, want *string) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("%s: got %v, want %v", name, got, want)
	case *got != *want:
		t.Errorf("%s: got %q, want %q", name, *got, *want)
	}
}
