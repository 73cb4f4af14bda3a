package query

import (
	"github.com/nguyenthanhduc0901/clinic-app/internal/client/account"
	"github.com/nguyenthanhduc0901/clinic-app/internal/client/appointment"
	"github.com/nguyenthanhduc0901/clinic-app/internal/client/invoice"
	"github.com/nguyenthanhduc0901/clinic-app/internal/client/record"
	"github.com/nguyenthanhduc0901/clinic-app/internal/config"
)

// Queries wraps the resource clients with caching, de-duplication and the
// mutation invalidation edges. Presentation code talks to this layer, not
// to the resource clients directly.
type Queries struct {
	cache *Cache
	cfg   config.CacheConfig

	appointments *appointment.Client
	invoices     *invoice.Client
	records      *record.Client
	accounts     *account.Client
}

func New(cache *Cache, cfg config.CacheConfig, appointments *appointment.Client, invoices *invoice.Client, records *record.Client, accounts *account.Client) *Queries {
	return &Queries{
		cache:        cache,
		cfg:          cfg,
		appointments: appointments,
		invoices:     invoices,
		records:      records,
		accounts:     accounts,
	}
}

// Invalidation edges. Each mutation declares up front which cache regions
// its success makes stale; the mutation methods apply these lists verbatim.
var (
	meKey          = NewKey(ResourceAuth, OpMe, nil)
	profileKey     = NewKey(ResourceAuth, OpProfile, nil)
	permissionsKey = NewKey(ResourceAuth, OpPermissions, nil)
)

// Appointment mutations touch patient-linked aggregates, so the /me entry
// goes stale along with the appointment caches.
func createAppointmentEdges() []string {
	return []string{
		OpPrefix(ResourceAppointments, OpList),
		meKey.String(),
	}
}

func changeAppointmentEdges(id int64) []string {
	return []string{
		OpPrefix(ResourceAppointments, OpList),
		DetailKey(ResourceAppointments, OpDetail, id).String(),
		meKey.String(),
	}
}

func updateProfileEdges() []string {
	return []string{
		profileKey.String(),
		meKey.String(),
	}
}

// EvictAll drops every cached entry. All cached data is auth-scoped, so
// logout funnels through here.
func (q *Queries) EvictAll() {
	q.cache.EvictAll()
}
