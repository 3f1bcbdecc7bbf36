package lease

import (
	"sort"

	"github.com/thanhtantran/kea-lease-manager/pkg/models"
)

// History returns every row whose address matches ip exactly, any
// state, newest expiration first. No matches is an empty slice, not an
// error.
func (r *Reconciler) History(ip string) ([]models.Lease, error) {
	rows, err := r.src.Rows()
	if err != nil {
		return nil, err
	}

	var history []models.Lease
	for _, row := range rows {
		if row["address"] != ip {
			continue
		}
		history = append(history, rowToLease(row))
	}

	// Stable so equal timestamps keep file order.
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].ExpireEpoch > history[j].ExpireEpoch
	})

	return history, nil
}
