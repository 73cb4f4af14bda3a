package query

import (
	"encoding/json"
	"fmt"
)

// Resource kinds and operations making up cache key namespaces.
const (
	ResourceAppointments = "appointments"
	ResourceInvoices     = "invoices"
	ResourceRecords      = "medicalRecords"
	ResourceAuth         = "auth"

	OpList        = "list"
	OpDetail      = "detail"
	OpAttachments = "attachments"
	OpByRecord    = "byMedicalRecord"
	OpMe          = "me"
	OpProfile     = "profile"
	OpPermissions = "permissions"
)

// Key identifies one cached query: resource kind, operation, and the
// structurally-canonicalized filter. Two filters with the same field values
// produce the same key no matter how they were built.
type Key string

func (k Key) String() string { return string(k) }

// NewKey canonicalizes the filter by round-tripping it through JSON: maps
// marshal with sorted keys and omitempty drops zero values, so logically
// identical filters collide.
func NewKey(resource, op string, filter interface{}) Key {
	canonical := "null"
	if filter != nil {
		encoded, err := json.Marshal(filter)
		if err == nil {
			var generic interface{}
			if json.Unmarshal(encoded, &generic) == nil {
				if re, err := json.Marshal(generic); err == nil {
					canonical = string(re)
				}
			}
		}
	}
	return Key(fmt.Sprintf("%s:%s:%s", resource, op, canonical))
}

// DetailKey builds the key for a single-resource read.
func DetailKey(resource, op string, id int64) Key {
	return Key(fmt.Sprintf("%s:%s:%d", resource, op, id))
}

// Prefix spans every operation of a resource kind.
func Prefix(resource string) string {
	return resource + ":"
}

// OpPrefix spans every filter variant of one operation.
func OpPrefix(resource, op string) string {
	return fmt.Sprintf("%s:%s:", resource, op)
}
