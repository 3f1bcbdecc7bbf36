package keaconf

import (
	"encoding/json"
	"os"
	"regexp"

	"github.com/sirupsen/logrus"
)

// subnetRe recovers id/subnet pairs from config text that fails JSON
// parsing, e.g. files with trailing commas or comment blocks. The id
// digits may be quoted.
var subnetRe = regexp.MustCompile(`(?s)"id"\s*:\s*"?(\d+)"?.*?"subnet"\s*:\s*"([^"]+)"`)

// Extractor reads subnet topology from the Kea DHCP4 config file. A
// missing or unusable config is not an error to callers; it just means
// no topology is known.
type Extractor struct {
	path string
}

// NewExtractor creates an extractor for the given Kea config path.
func NewExtractor(path string) *Extractor {
	return &Extractor{path: path}
}

// Path returns the configured Kea config file path.
func (e *Extractor) Path() string {
	return e.path
}

// Topology returns the id to CIDR mapping and the stage that produced
// it. Structured parsing is always attempted first; the tolerant text
// scan only runs when JSON decoding fails.
func (e *Extractor) Topology() (map[string]string, Stage) {
	content, err := os.ReadFile(e.path)
	if err != nil {
		logrus.Warnf("Could not read Kea config %s: %v", e.path, err)
		return map[string]string{}, StageNone
	}

	if subnets, ok := parseStructured(content); ok {
		return subnets, StageStructured
	}

	logrus.Debugf("Kea config %s is not valid JSON, using pattern extraction", e.path)

	subnets := parseFallback(content)
	if len(subnets) == 0 {
		return map[string]string{}, StageNone
	}
	return subnets, StageFallback
}

// Subnets returns just the mapping, empty when no topology is known.
func (e *Extractor) Subnets() map[string]string {
	subnets, _ := e.Topology()
	return subnets
}

// parseStructured decodes the whole config as JSON and walks
// Dhcp4.subnet4. ok is false only when the document is not valid JSON;
// a valid document without subnets yields an empty map.
func parseStructured(content []byte) (map[string]string, bool) {
	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, false
	}

	subnets := make(map[string]string)
	if cfg.Dhcp4 == nil {
		return subnets, true
	}

	for _, sn := range cfg.Dhcp4.Subnet4 {
		id := sn.ID.String()
		if id == "" || sn.Subnet == "" {
			continue
		}
		subnets[id] = sn.Subnet
	}

	return subnets, true
}

// parseFallback scans the raw text for id/subnet pairs in order of
// appearance. Duplicate ids keep the last occurrence.
func parseFallback(content []byte) map[string]string {
	subnets := make(map[string]string)
	for _, match := range subnetRe.FindAllSubmatch(content, -1) {
		subnets[string(match[1])] = string(match[2])
	}
	return subnets
}
