package paging

import (
	"net/http/httptest"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", DefaultLimit},
		{"5", 5},
		{"20", 20},
		{"21", MaxLimit},
		{"9999", MaxLimit},
		{"99999999999999999999", MaxLimit},
		{"+99999999999999999999", MaxLimit},
		{"-99999999999999999999", DefaultLimit},
		{"0", DefaultLimit},
		{"-5", DefaultLimit},
		{"abc", DefaultLimit},
		{"7.5", DefaultLimit},
		{" 3 ", 3},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Clamp(tt.raw); got != tt.want {
				t.Errorf("Clamp(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		target string
		want   int
	}{
		{"/api/activity", 10},
		{"/api/activity?limit=9999", 20},
		{"/api/activity?limit=99999999999999999999", 20},
		{"/api/activity?limit=0", 10},
		{"/api/activity?limit=-5", 10},
		{"/api/activity?limit=4", 4},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := ParseLimit(r, "limit"); got != tt.want {
				t.Errorf("ParseLimit(%q) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}
}
