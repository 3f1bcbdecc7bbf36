package reservation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thanhtantran/kea-lease-manager/pkg/models"
)

// Builder generates Kea DHCP4 reservation fragments. It only needs to
// know the config path so the instructions can reference it.
type Builder struct {
	keaConfigFile string
}

// NewBuilder creates a builder that references the given Kea config
// path in its instructions.
func NewBuilder(keaConfigFile string) *Builder {
	return &Builder{keaConfigFile: keaConfigFile}
}

// Build turns (ip, mac, hostname) into a JSON reservation fragment and
// human-readable install instructions. The mac is lowercased verbatim;
// no format validation happens here — callers reject empty ip/mac
// before invoking.
func (b *Builder) Build(ip, mac, hostname string) (string, string) {
	entry := models.Reservation{
		HWAddress: strings.ToLower(mac),
		IPAddress: ip,
		Hostname:  hostname,
	}

	fragment, _ := json.MarshalIndent(models.ReservationConfig{
		Reservations: []models.Reservation{entry},
	}, "", "  ")

	return string(fragment), b.instructions(entry)
}

// instructions renders the fixed prose walking through applying the
// reservation by hand. It is informational text, never parsed.
func (b *Builder) instructions(entry models.Reservation) string {
	hostnameField := ""
	if entry.Hostname != "" {
		hostnameField = fmt.Sprintf(`, "hostname": "%s"`, entry.Hostname)
	}

	return fmt.Sprintf(`
To add this static reservation to your Kea DHCP4 configuration:

1. Edit your Kea configuration file:
   vi %[1]s

2. Find the subnet4 section for your network and add the reservation:

   "subnet4": [
     {
       "subnet": "192.168.20.0/24",
       "pools": [
         { "pool": "192.168.20.100-192.168.20.200" }
       ],
       "reservations": [
         {
           "hw-address": "%[2]s",
           "ip-address": "%[3]s"%[4]s
         }
       ]
     }
   ]

3. Test the configuration:
   kea-dhcp4 -t %[1]s

4. Restart Kea DHCP4:
   /etc/init.d/kea-dhcp4 restart

5. Check the status:
   /etc/init.d/kea-dhcp4 status
`, b.keaConfigFile, entry.HWAddress, entry.IPAddress, hostnameField)
}
