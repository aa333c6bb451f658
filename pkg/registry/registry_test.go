package registry

import "testing"

// TestServiceInfoHelpers 测试实例地址拼装
func TestServiceInfoHelpers(t *testing.T) {
	info := &ServiceInfo{
		ServiceName: "notes-service",
		Host:        "10.0.0.1",
		Port:        8081,
	}

	if got := info.Address(); got != "10.0.0.1:8081" {
		t.Errorf("Address() = %q", got)
	}
	if got := info.Scheme(); got != "http" {
		t.Errorf("Scheme() = %q", got)
	}
	if got := info.URI(); got != "http://10.0.0.1:8081" {
		t.Errorf("URI() = %q", got)
	}

	info.Secure = true
	if got := info.Scheme(); got != "https" {
		t.Errorf("Scheme() with TLS = %q", got)
	}
	if got := info.URI(); got != "https://10.0.0.1:8081" {
		t.Errorf("URI() with TLS = %q", got)
	}
}
