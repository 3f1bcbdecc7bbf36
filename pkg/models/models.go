package models

// Lease represents one entry from the Kea lease log, with the expire
// field carried both raw and in display form.
type Lease struct {
	IP            string `json:"ip"`
	MAC           string `json:"mac"`
	Hostname      string `json:"hostname"`
	Expire        string `json:"expire"`
	ExpireRaw     string `json:"expire_ts"`
	ExpireEpoch   int64  `json:"expire_timestamp"`
	SubnetID      string `json:"subnet_id"`
	ClientID      string `json:"client_id,omitempty"`
	ValidLifetime string `json:"valid_lifetime"`
	State         string `json:"state"`
}

// Reservation is a single host reservation in Kea DHCP4 config format.
type Reservation struct {
	HWAddress string `json:"hw-address"`
	IPAddress string `json:"ip-address"`
	Hostname  string `json:"hostname,omitempty"`
}

// ReservationConfig is the fragment wrapper Kea expects inside a
// subnet4 definition.
type ReservationConfig struct {
	Reservations []Reservation `json:"reservations"`
}
