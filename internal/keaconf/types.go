package keaconf

import "encoding/json"

// Config is the top level of a Kea configuration file. Only the DHCPv4
// section is of interest here.
type Config struct {
	Dhcp4 *Dhcp4Config `json:"Dhcp4"`
}

// Dhcp4Config contains the DHCPv4 server configuration.
type Dhcp4Config struct {
	Subnet4 []Subnet4 `json:"subnet4"`
}

// Subnet4 is one IPv4 subnet definition. The id is kept as a raw number
// token so it survives stringification without float formatting.
type Subnet4 struct {
	ID     json.Number `json:"id"`
	Subnet string      `json:"subnet"`
}

// Stage identifies which extraction path produced a topology.
type Stage int

const (
	// StageNone means the config was missing or nothing could be
	// extracted by either stage.
	StageNone Stage = iota

	// StageStructured means the config parsed as JSON and the subnet4
	// list was read directly.
	StageStructured

	// StageFallback means JSON parsing failed and id/subnet pairs were
	// recovered from the raw text.
	StageFallback
)

func (s Stage) String() string {
	switch s {
	case StageStructured:
		return "structured"
	case StageFallback:
		return "fallback"
	default:
		return "none"
	}
}
