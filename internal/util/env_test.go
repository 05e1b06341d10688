package util

import "testing"

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("HG_TEST_VALUE", "custom")
	if got := EnvOrDefault("HG_TEST_VALUE", "fallback"); got != "custom" {
		t.Errorf("EnvOrDefault = %q, want custom", got)
	}
	t.Setenv("HG_TEST_VALUE", "  ")
	if got := EnvOrDefault("HG_TEST_VALUE", "fallback"); got != "fallback" {
		t.Errorf("EnvOrDefault with blank value = %q, want fallback", got)
	}
	if got := EnvOrDefault("HG_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("EnvOrDefault with unset key = %q, want fallback", got)
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"No", true, false},
		{"off", true, false},
		{"", true, true},
		{"", false, false},
		{"garbage", true, true},
		{"garbage", false, false},
	}
	for _, tt := range tests {
		t.Setenv("HG_TEST_BOOL", tt.value)
		if got := ParseBoolEnv("HG_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}
