package dirhelper

import (
	"net"
	"net/http"
	"strings"
)

const DEFAULT_DIRECTORY = "web"

type Config struct {
	Default string            `yaml:"default"`
	Hosts   map[string]string `yaml:"hosts"`
}

// Helper picks the webfiles directory for a request from the first label of
// its host, e.g. "portal.olv.example.net" -> Hosts["portal"].
type Helper struct {
	def   string
	hosts map[string]string
}

func New(cfg Config) *Helper {
	def := cfg.Default
	if def == "" {
		def = DEFAULT_DIRECTORY
	}
	hosts := make(map[string]string, len(cfg.Hosts))
	for k, v := range cfg.Hosts {
		hosts[strings.ToLower(k)] = v
	}
	return &Helper{def: def, hosts: hosts}
}

func (h *Helper) Directory(r *http.Request) string {
	host := r.Host
	if hostOnly, _, err := net.SplitHostPort(host); err == nil {
		host = hostOnly
	}
	label, _, _ := strings.Cut(strings.ToLower(host), ".")
	if dir, ok := h.hosts[label]; ok {
		return dir
	}
	return h.def
}
