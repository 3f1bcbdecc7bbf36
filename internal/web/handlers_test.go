package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhtantran/kea-lease-manager/internal/config"
	"github.com/thanhtantran/kea-lease-manager/internal/keaconf"
	"github.com/thanhtantran/kea-lease-manager/internal/lease"
	"github.com/thanhtantran/kea-lease-manager/internal/reservation"
	"github.com/thanhtantran/kea-lease-manager/pkg/models"
)

const leaseHeader = "address,hwaddr,client_id,valid_lifetime,expire,subnet_id,fqdn_fwd,fqdn_rev,hostname,state,user_context"

// newTestServer wires a Server over fixture files in a temp dir. The
// lease/config files are created only when content is non-empty.
func newTestServer(t *testing.T, leaseContent, keaContent string) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.LeaseFile = filepath.Join(dir, "kea-leases4.csv")
	cfg.KeaConfigFile = filepath.Join(dir, "kea-dhcp4.conf")
	cfg.HTMLDir = dir

	if leaseContent != "" {
		require.NoError(t, os.WriteFile(cfg.LeaseFile, []byte(leaseContent), 0644))
	}
	if keaContent != "" {
		require.NoError(t, os.WriteFile(cfg.KeaConfigFile, []byte(keaContent), 0644))
	}

	server := NewServer(cfg,
		lease.NewReconciler(lease.NewSource(cfg.LeaseFile)),
		keaconf.NewExtractor(cfg.KeaConfigFile),
		reservation.NewBuilder(cfg.KeaConfigFile),
		nil)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestLeasesAPI(t *testing.T) {
	leaseContent := leaseHeader + "\n" +
		"192.168.1.20,aa:bb:cc:00:00:01,01:aa,3600,100,1,0,0,host-a,0,\n" +
		"192.168.1.20,aa:bb:cc:00:00:01,01:aa,3600,200,1,0,0,host-a,0,\n" +
		"192.168.1.10,aa:bb:cc:00:00:02,01:bb,3600,100,1,0,0,host-b,0,\n"

	ts := newTestServer(t, leaseContent, "")

	resp, err := http.Get(ts.URL + "/api/leases")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Leases []models.Lease `json:"leases"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Leases, 2)

	assert.Equal(t, "192.168.1.10", body.Leases[0].IP)
	assert.Equal(t, "192.168.1.20", body.Leases[1].IP)
	assert.Equal(t, int64(200), body.Leases[1].ExpireEpoch)
}

func TestLeasesAPI_MissingFile(t *testing.T) {
	ts := newTestServer(t, "", "")

	resp, err := http.Get(ts.URL + "/api/leases")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "lease file not found")
}

func TestHistoryAPI(t *testing.T) {
	leaseContent := leaseHeader + "\n" +
		"192.168.1.20,aa:bb:cc:00:00:01,01:aa,3600,100,1,0,0,host-a,0,\n" +
		"192.168.1.20,aa:bb:cc:00:00:02,01:bb,3600,200,1,0,0,host-a,1,\n"

	ts := newTestServer(t, leaseContent, "")

	resp, err := http.Get(ts.URL + "/api/lease-history/192.168.1.20")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		History []models.Lease `json:"history"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.History, 2)

	// Newest first, all states included.
	assert.Equal(t, int64(200), body.History[0].ExpireEpoch)
	assert.Equal(t, "1", body.History[0].State)
}

func TestHistoryAPI_UnknownAddressIsEmpty(t *testing.T) {
	ts := newTestServer(t, leaseHeader+"\n", "")

	resp, err := http.Get(ts.URL + "/api/lease-history/10.9.9.9")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		History []models.Lease `json:"history"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.History)
}

func TestSubnetsAPI(t *testing.T) {
	keaContent := `{"Dhcp4": {"subnet4": [{"id": 1, "subnet": "192.168.20.0/24"}]}}`
	ts := newTestServer(t, "", keaContent)

	resp, err := http.Get(ts.URL + "/api/subnets")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Subnets map[string]string `json:"subnets"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{"1": "192.168.20.0/24"}, body.Subnets)
}

func TestSubnetsAPI_MissingConfigIsEmptyNotError(t *testing.T) {
	ts := newTestServer(t, "", "")

	resp, err := http.Get(ts.URL + "/api/subnets")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Subnets map[string]string `json:"subnets"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Subnets)
}

func TestReservationAPI(t *testing.T) {
	ts := newTestServer(t, "", "")

	payload := `{"ip": "192.168.20.50", "mac": "AA:BB:CC:DD:EE:FF", "hostname": ""}`
	resp, err := http.Post(ts.URL+"/api/reservation", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ReservationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Contains(t, body.JSONConfig, `"hw-address": "aa:bb:cc:dd:ee:ff"`)
	assert.Contains(t, body.JSONConfig, `"ip-address": "192.168.20.50"`)
	assert.NotContains(t, body.JSONConfig, "hostname")
	assert.Contains(t, body.Instructions, "kea-dhcp4 -t")
}

func TestReservationAPI_ValidatesRequiredFields(t *testing.T) {
	ts := newTestServer(t, "", "")

	for _, payload := range []string{
		`{"ip": "", "mac": "aa:bb:cc:dd:ee:ff"}`,
		`{"ip": "192.168.20.50", "mac": ""}`,
		`{}`,
	} {
		resp, err := http.Post(ts.URL+"/api/reservation", "application/json", strings.NewReader(payload))
		require.NoError(t, err)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "IP and MAC address are required", body["error"])
	}
}

func TestReservationAPI_RejectsGET(t *testing.T) {
	ts := newTestServer(t, "", "")

	resp, err := http.Get(ts.URL + "/api/reservation")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStatusAPI(t *testing.T) {
	ts := newTestServer(t, "", "")

	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Contains(t, body.LeaseFile, "kea-leases4.csv")
	assert.Contains(t, body.KeaConfigFile, "kea-dhcp4.conf")
	assert.Empty(t, body.LastLeaseChange)
}
