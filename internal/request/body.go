package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"
)

// DefaultMaxBodyBytes is the largest body ReadBody accepts when no limit is given.
const DefaultMaxBodyBytes = 8 << 20 // 8 MiB

// ErrBodyTooLarge is returned by ReadBody when the body exceeds the limit.
// Nothing is interpreted in that case.
var ErrBodyTooLarge = errors.New("request body too large")

// BodyKind is how the transport delivered the body.
type BodyKind int

const (
	BodyAbsent BodyKind = iota
	BodyText
	BodyBinary
)

func (k BodyKind) String() string {
	switch k {
	case BodyText:
		return "text"
	case BodyBinary:
		return "binary"
	default:
		return "absent"
	}
}

// Body is the raw request body as handed over by the transport.
type Body struct {
	Kind  BodyKind
	Bytes []byte
}

// ReadBody drains the whole of r.Body. A nil or zero-length body is
// BodyAbsent; valid UTF-8 is BodyText; anything else is BodyBinary. A body
// longer than limit bytes yields ErrBodyTooLarge; limit <= 0 means
// DefaultMaxBodyBytes.
func ReadBody(r *http.Request, limit int64) (Body, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return Body{Kind: BodyAbsent}, nil
	}
	defer r.Body.Close()

	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	b, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Body{}, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return Body{}, fmt.Errorf("read body: %w", err)
	}
	switch {
	case len(b) == 0:
		return Body{Kind: BodyAbsent}, nil
	case utf8.Valid(b):
		return Body{Kind: BodyText, Bytes: b}, nil
	default:
		return Body{Kind: BodyBinary, Bytes: b}, nil
	}
}

// InboundData is the structured payload a caller may post. Every field is
// independently optional; nil means the key was absent or null.
type InboundData struct {
	Phone    *string `json:"phone"`
	Message  *string `json:"message"`
	SenderID *string `json:"sender_id"`
}

// BodyStatus records why Interpret did or did not produce InboundData.
type BodyStatus int

const (
	// StatusEmpty means there was no body at all.
	StatusEmpty BodyStatus = iota
	// StatusParsed means the body was a JSON object matching InboundData.
	StatusParsed
	// StatusUnstructured means a body was present but was not a usable JSON object.
	StatusUnstructured
)

func (s BodyStatus) String() string {
	switch s {
	case StatusParsed:
		return "parsed"
	case StatusUnstructured:
		return "unstructured"
	default:
		return "empty"
	}
}

// errNotObject is reported for JSON values that are valid but not objects.
var errNotObject = errors.New("body is not a JSON object")

// Interpretation is the outcome of Interpret. Data is non-nil only when
// Status is StatusParsed. Err holds the decode error for StatusUnstructured
// and is for diagnostics only.
type Interpretation struct {
	Data   *InboundData
	Status BodyStatus
	Err    error
}

// Interpret turns a raw body into optional InboundData. Both an empty body and
// an unparseable one yield nil Data; Status tells them apart.
func Interpret(body Body) Interpretation {
	if body.Kind == BodyAbsent || len(body.Bytes) == 0 {
		return Interpretation{Status: StatusEmpty}
	}

	data, err := decodeInbound(body.Bytes)
	if err != nil {
		return Interpretation{Status: StatusUnstructured, Err: err}
	}
	return Interpretation{Data: data, Status: StatusParsed}
}

// decodeInbound decodes a single JSON object. Keys match case-sensitively,
// unknown keys are skipped, a repeated known key is an error, and nothing but
// whitespace may follow the object.
func decodeInbound(b []byte) (*InboundData, error) {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	var data InboundData
	seen := make(map[string]bool, 3)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var field **string
		switch key {
		case "phone":
			field = &data.Phone
		case "message":
			field = &data.Message
		case "sender_id":
			field = &data.SenderID
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		if seen[key] {
			return nil, fmt.Errorf("duplicate field %q", key)
		}
		seen[key] = true
		if err := dec.Decode(field); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
	}

	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON object")
	}
	return &data, nil
}

// Preview returns at most n runes of a UTF-8 body for logging. ok is false
// when the body is not valid UTF-8.
func Preview(b []byte, n int) (s string, ok bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	runes := []rune(string(b))
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes), true
}
