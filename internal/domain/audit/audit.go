// Package audit holds the append-only change log of mutating requests.
package audit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Log is one audited mutation. Rows are never updated or deleted.
type Log struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Action       string    `gorm:"type:varchar(10);not null;index" json:"action"`
	Entity       string    `gorm:"type:varchar(100);not null;index" json:"entity"`
	EntityID     *string   `gorm:"column:entity_id;type:varchar(100)" json:"entityId"`
	Payload      *string   `gorm:"type:jsonb" json:"payload"`
	PreviousData *string   `gorm:"column:previous_data;type:jsonb" json:"previousData"`
	UserID       *string   `gorm:"column:user_id;type:varchar(100);index" json:"userId"`
	IP           *string   `gorm:"column:ip;type:varchar(64)" json:"ip"`
	UserAgent    *string   `gorm:"column:user_agent;type:varchar(500)" json:"userAgent"`
	CreatedAt    time.Time `gorm:"not null;index" json:"createdAt"`

	// User is filled on reads from the profile matching UserID
	User *Actor `gorm:"-" json:"user"`
}

// Actor is the profile behind a record
type Actor struct {
	UserID    string `json:"-"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// TableName returns the table name for GORM
func (Log) TableName() string {
	return "audit_logs"
}

// MarshalJSON emits payload and previousData as embedded JSON rather
// than as strings
func (l Log) MarshalJSON() ([]byte, error) {
	type alias Log
	return json.Marshal(struct {
		alias
		Payload      json.RawMessage `json:"payload"`
		PreviousData json.RawMessage `json:"previousData"`
	}{
		alias:        alias(l),
		Payload:      raw(l.Payload),
		PreviousData: raw(l.PreviousData),
	})
}

func raw(s *string) json.RawMessage {
	if s == nil {
		return json.RawMessage("null")
	}
	return json.RawMessage(*s)
}

// IsAudited reports whether requests with method change state
func IsAudited(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// CapturesPrevious reports whether method needs a before snapshot
func CapturesPrevious(method string) bool {
	switch method {
	case http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// EntityFromPath returns the first path segment after prefix, or
// "unknown"
func EntityFromPath(path, prefix string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, prefix)
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "unknown"
	}
	return path
}

// EntityIDFromBody extracts a string or numeric "id" from a JSON object
// body. Integral numbers are rendered without a fraction.
func EntityIDFromBody(body []byte) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", false
	}
	rawID, ok := obj["id"]
	if !ok || string(rawID) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(rawID, &s); err == nil {
		return s, true
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(rawID))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", false
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), true
	}
	f, err := n.Float64()
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

// NormalizePayload returns the body to store, or nil for JSON null. Only
// objects with at least one key are kept.
func NormalizePayload(body []byte) *string {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || len(obj) == 0 {
		return nil
	}
	s := string(body)
	return &s
}

// FormPayload encodes form fields as a JSON object. A field sent once
// becomes a string, a repeated field an array. Returns nil when there are
// no fields.
func FormPayload(values map[string][]string) []byte {
	if len(values) == 0 {
		return nil
	}
	obj := make(map[string]any, len(values))
	for key, vs := range values {
		switch len(vs) {
		case 0:
			continue
		case 1:
			obj[key] = vs[0]
		default:
			obj[key] = vs
		}
	}
	if len(obj) == 0 {
		return nil
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil
	}
	return b
}

// Entry is what the interceptor collected for one request
type Entry struct {
	Action       string
	Entity       string
	EntityID     string
	Body         []byte
	PreviousData []byte
	UserID       string
	IP           string
	UserAgent    string
}

// NewLog turns an entry into a storable record
func NewLog(e Entry) *Log {
	l := &Log{
		ID:        uuid.New(),
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  optional(e.EntityID),
		Payload:   NormalizePayload(e.Body),
		UserID:    optional(e.UserID),
		IP:        optional(e.IP),
		UserAgent: optional(e.UserAgent),
		CreatedAt: time.Now(),
	}
	if len(e.PreviousData) > 0 && string(e.PreviousData) != "null" {
		s := string(e.PreviousData)
		l.PreviousData = &s
	}
	return l
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
