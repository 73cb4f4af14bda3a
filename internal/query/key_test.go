package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
)

func TestKeyStructuralEquality(t *testing.T) {
	fromStruct := NewKey(ResourceAppointments, OpList, model.ListAppointmentsParams{Page: 1, Limit: 10})
	fromMap := NewKey(ResourceAppointments, OpList, map[string]interface{}{"limit": 10, "page": 1})

	assert.Equal(t, fromStruct, fromMap)
}

func TestKeyMapOrderIrrelevant(t *testing.T) {
	a := NewKey(ResourceInvoices, OpList, map[string]interface{}{"page": 2, "status": "paid"})
	b := NewKey(ResourceInvoices, OpList, map[string]interface{}{"status": "paid", "page": 2})

	assert.Equal(t, a, b)
}

func TestKeyDropsZeroFilterFields(t *testing.T) {
	// omitempty removes unset fields, so partially-built filters with the
	// same effective values collide.
	sparse := NewKey(ResourceAppointments, OpList, model.ListAppointmentsParams{Page: 1, Limit: 10})
	explicit := NewKey(ResourceAppointments, OpList, model.ListAppointmentsParams{Date: "", Status: "", Page: 1, Limit: 10})

	assert.Equal(t, sparse, explicit)
}

func TestKeyDistinguishesFilters(t *testing.T) {
	a := NewKey(ResourceAppointments, OpList, model.ListAppointmentsParams{Page: 1, Limit: 10})
	b := NewKey(ResourceAppointments, OpList, model.ListAppointmentsParams{Page: 2, Limit: 10})

	assert.NotEqual(t, a, b)
}

func TestNilFilter(t *testing.T) {
	assert.Equal(t, Key("auth:me:null"), NewKey(ResourceAuth, OpMe, nil))
}

func TestDetailKeyAndPrefixes(t *testing.T) {
	key := DetailKey(ResourceAppointments, OpDetail, 42)

	assert.Equal(t, Key("appointments:detail:42"), key)
	assert.True(t, len(Prefix(ResourceAppointments)) < len(key))
	assert.Contains(t, key.String(), OpPrefix(ResourceAppointments, OpDetail))
}
