package dirhelper

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelper_Directory(t *testing.T) {
	h := New(Config{Hosts: map[string]string{"Portal": "portal", "ctr": "ctr"}})

	tests := []struct {
		host string
		want string
	}{
		{"portal.olv.pretendo.cc", "portal"},
		{"PORTAL.olv.pretendo.cc:443", "portal"},
		{"ctr.olv.pretendo.cc", "ctr"},
		{"juxt.pretendo.network", "web"},
		{"localhost:8080", "web"},
		{"", "web"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/css/juxt.css", nil)
			r.Host = tt.host
			assert.Equal(t, tt.want, h.Directory(r))
		})
	}

	assert.Equal(t, "custom", New(Config{Default: "custom"}).Directory(httptest.NewRequest("GET", "/", nil)))
}
