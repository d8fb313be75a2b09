package main

import (
	"bytes"
	"strings"
	"testing"

	"go-pager-bot/config"
)

func TestMaskString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short", "***"},
		{"12345678", "***"},
		{"123456789:ABCDEF", "1234***CDEF"},
	}

	for _, tt := range tests {
		if got := maskString(tt.input); got != tt.expected {
			t.Errorf("maskString(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestPrintCommands(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.BotConfig
		contains []string
		missing  []string
	}{
		{
			name:     "dash mode",
			cfg:      &config.BotConfig{Language: "en"},
			contains: []string{"**Usage:** `-help <command>`", "**Usage:** `-ping `", "**Usage:** `-id `"},
			missing:  []string{"stats"},
		},
		{
			name: "slash mode with alias and disabled command",
			cfg: &config.BotConfig{Language: "en", Listener: config.ListenerConfig{
				UserBot:      "pager_bot",
				CommandAlias: map[string]string{"ping": "p"},
				DisabledCmd:  []string{"id"},
			}},
			contains: []string{"`/p `", "`/help <command>`"},
			missing:  []string{"`/id `", "`/ping `"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := printCommands(&out, tt.cfg); err != nil {
				t.Fatalf("printCommands failed: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
			for _, unwanted := range tt.missing {
				if strings.Contains(out.String(), unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, out.String())
				}
			}
		})
	}
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "commands"} {
		if !names[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
}
