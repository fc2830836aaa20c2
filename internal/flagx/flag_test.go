package flagx

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var (
	serverFlags = []string{"-a", "-d", "-k", "-r", "-l"}
	clientFlags = []string{"-a", "-t", "-s"}
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "server flags kept, config flag dropped",
			args:    []string{"-c", "aura.json", "-a", ":5000", "-d", "sqlite:file:aura.db"},
			allowed: serverFlags,
			want:    []string{"-a", ":5000", "-d", "sqlite:file:aura.db"},
		},
		{
			name:    "equals form",
			args:    []string{"-r=redis://localhost:6379", "-x=1"},
			allowed: serverFlags,
			want:    []string{"-r=redis://localhost:6379"},
		},
		{
			name:    "client ignores server-only flags",
			args:    []string{"-a", "http://127.0.0.1:5000", "-k", "secret", "-t", "5"},
			allowed: clientFlags,
			want:    []string{"-a", "http://127.0.0.1:5000", "-t", "5"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-s"},
			allowed: clientFlags,
			want:    []string{"-s"},
		},
		{
			name:    "dash token is never a value",
			args:    []string{"-l", "-debug"},
			allowed: serverFlags,
			want:    []string{"-l"},
		},
		{
			name:    "equals value may start with a dash",
			args:    []string{"-k=--not-a-flag"},
			allowed: serverFlags,
			want:    []string{"-k=--not-a-flag"},
		},
		{
			name:    "repeated flags keep order",
			args:    []string{"-l", "info", "positional", "-l", "debug"},
			allowed: serverFlags,
			want:    []string{"-l", "info", "-l", "debug"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", ":5000"},
			allowed: nil,
			want:    []string{},
		},
		{
			name:    "empty args",
			args:    nil,
			allowed: clientFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	cases := map[string]struct {
		args []string
		want string
	}{
		"short":                {[]string{"eventaura", "-a", ":5000", "-c", "/etc/aura.json"}, "/etc/aura.json"},
		"long":                 {[]string{"eventaura", "-config", "/etc/aura.json", "-l", "debug"}, "/etc/aura.json"},
		"long with equals":     {[]string{"eventaura", "-config=/etc/aura.json"}, "/etc/aura.json"},
		"absent":               {[]string{"eventaura", "-a", ":5000"}, ""},
		"last occurrence wins": {[]string{"eventaura", "-c", "one.json", "-config", "two.json"}, "two.json"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			os.Args = tc.args
			assert.Equal(t, tc.want, ConfigFileFlag())
		})
	}
}
