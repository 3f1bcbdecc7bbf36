package lease

import (
	"sort"
	"strconv"
	"time"

	"github.com/thanhtantran/kea-lease-manager/pkg/models"
	"github.com/thanhtantran/kea-lease-manager/pkg/netutil"
)

const (
	stateActive   = "0"
	expireFormat  = "2006-01-02 15:04:05"
	noExpiration  = "No expiration"
	invalidExpire = "Invalid date"
)

// Reconciler builds lease views from the record source. It keeps no
// state between calls; each view re-reads the lease log.
type Reconciler struct {
	src *Source
}

// NewReconciler creates a reconciler over the given source.
func NewReconciler(src *Source) *Reconciler {
	return &Reconciler{src: src}
}

// Active returns one lease per address: the active-state row with the
// greatest expire timestamp, sorted ascending by numeric address. On a
// source error the slice is empty and the error describes the cause.
func (r *Reconciler) Active() ([]models.Lease, error) {
	rows, err := r.src.Rows()
	if err != nil {
		return nil, err
	}

	best := make(map[string]models.Lease)
	for _, row := range rows {
		addr := row["address"]
		if addr == "" || row["state"] != stateActive {
			continue
		}

		lease := rowToLease(row)

		// Strictly-greater keeps the earliest row on equal timestamps.
		if cur, ok := best[addr]; !ok || lease.ExpireEpoch > cur.ExpireEpoch {
			best[addr] = lease
		}
	}

	leases := make([]models.Lease, 0, len(best))
	for _, lease := range best {
		leases = append(leases, lease)
	}

	sort.Slice(leases, func(i, j int) bool {
		return netutil.AddrKey(leases[i].IP) < netutil.AddrKey(leases[j].IP)
	})

	return leases, nil
}

// rowToLease maps a raw row to the display model shared by the active
// and history views.
func rowToLease(row Row) models.Lease {
	epoch, display := formatExpire(row["expire"])

	return models.Lease{
		IP:            row["address"],
		MAC:           row["hwaddr"],
		Hostname:      row["hostname"],
		Expire:        display,
		ExpireRaw:     row["expire"],
		ExpireEpoch:   epoch,
		SubnetID:      row["subnet_id"],
		ClientID:      row["client_id"],
		ValidLifetime: row["valid_lifetime"],
		State:         row["state"],
	}
}

// formatExpire turns the raw expire field into an epoch and a display
// string. Empty or "0" means no expiration; anything non-numeric is
// reported as invalid. Both sort as epoch 0.
func formatExpire(raw string) (int64, string) {
	if raw == "" || raw == "0" {
		return 0, noExpiration
	}

	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidExpire
	}

	return ts, time.Unix(ts, 0).Format(expireFormat)
}
