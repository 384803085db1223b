package main

import "testing"

func TestCredentialKeyFromArg(t *testing.T) {
	cases := map[string]bool{
		"llm":             true,
		"exchange-key":    true,
		"exchange-secret": true,
		"bogus":           false,
	}
	for arg, wantOK := range cases {
		_, err := credentialKeyFromArg(arg)
		if (err == nil) != wantOK {
			t.Errorf("credentialKeyFromArg(%q) error=%v, want ok=%v", arg, err, wantOK)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug": "DEBUG",
		"warn":  "WARN",
		"error": "ERROR",
		"info":  "INFO",
		"":      "INFO",
	}
	for level, want := range cases {
		if got := parseLogLevel(level).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", level, got, want)
		}
	}
}
