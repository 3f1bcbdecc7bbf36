package lease

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_IncludesAllStates(t *testing.T) {
	path := writeLeaseFile(t,
		leaseLine("192.168.1.10", "aa:bb:cc:00:00:01", "100", "h1", "0"),
		leaseLine("192.168.1.10", "aa:bb:cc:00:00:01", "200", "h1", "1"),
		leaseLine("192.168.1.10", "aa:bb:cc:00:00:02", "300", "h2", "2"),
		leaseLine("192.168.1.99", "aa:bb:cc:00:00:03", "400", "other", "0"),
	)

	history, err := NewReconciler(NewSource(path)).History("192.168.1.10")
	require.NoError(t, err)
	require.Len(t, history, 3)

	states := []string{history[0].State, history[1].State, history[2].State}
	assert.ElementsMatch(t, []string{"0", "1", "2"}, states)
}

func TestHistory_SortsDescendingByExpire(t *testing.T) {
	path := writeLeaseFile(t,
		leaseLine("192.168.1.10", "aa:bb:cc:00:00:01", "100", "", "0"),
		leaseLine("192.168.1.10", "aa:bb:cc:00:00:02", "bogus", "", "0"),
		leaseLine("192.168.1.10", "aa:bb:cc:00:00:03", "300", "", "1"),
		leaseLine("192.168.1.10", "aa:bb:cc:00:00:04", "", "", "0"),
	)

	history, err := NewReconciler(NewSource(path)).History("192.168.1.10")
	require.NoError(t, err)
	require.Len(t, history, 4)

	assert.Equal(t, int64(300), history[0].ExpireEpoch)
	assert.Equal(t, int64(100), history[1].ExpireEpoch)

	// Unparseable and empty expire sort as 0, after everything else,
	// keeping file order between themselves.
	assert.Equal(t, "Invalid date", history[2].Expire)
	assert.Equal(t, "No expiration", history[3].Expire)
}

func TestHistory_NoMatchesIsEmptyNotError(t *testing.T) {
	path := writeLeaseFile(t,
		leaseLine("192.168.1.10", "aa:bb:cc:00:00:01", "100", "", "0"),
	)

	history, err := NewReconciler(NewSource(path)).History("10.9.9.9")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistory_ExactStringMatch(t *testing.T) {
	path := writeLeaseFile(t,
		leaseLine("10.0.0.1", "aa:bb:cc:00:00:01", "100", "", "0"),
	)

	// No normalization: a zero-padded query does not match.
	history, err := NewReconciler(NewSource(path)).History("10.0.0.01")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistory_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.csv")

	history, err := NewReconciler(NewSource(path)).History("10.0.0.1")
	assert.Empty(t, history)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceNotFound))
}
