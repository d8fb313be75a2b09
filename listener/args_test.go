package listener

import (
	"reflect"
	"regexp"
	"testing"
)

func TestParseArguments(t *testing.T) {
	dash := regexp.MustCompile(`(?i)^-ping(?: |$)([\s\S]*)`)
	slash := regexp.MustCompile(`(?i)^/ping(@mybot)?(?: |$)([\s\S]*)`)
	noGroup := regexp.MustCompile(`(?i)^hello`)

	tests := []struct {
		name      string
		pattern   *regexp.Regexp
		text      string
		slash     bool
		wantOK    bool
		wantRaw   string
		wantParam []string
	}{
		{"empty trailing", dash, "-ping", false, true, "", []string{}},
		{"three tokens", dash, "-ping a b c", false, true, "a b c", []string{"a", "b", "c"}},
		{"double space kept", dash, "-ping a  b", false, true, "a  b", []string{"a", "", "b"}},
		{"multiline", dash, "-ping a\nb", false, true, "a\nb", []string{"a\nb"}},
		{"slash with mention", slash, "/ping@mybot x y", true, true, "x y", []string{"x", "y"}},
		{"slash without mention", slash, "/ping x", true, true, "x", []string{"x"}},
		{"no match", dash, "ping", false, false, "", nil},
		{"missing group", noGroup, "hello there", false, false, "", nil},
		{"missing slash group", dash, "-ping a", true, false, "", nil},
		{"nil pattern", nil, "-ping", false, false, "", nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			args, ok := ParseArguments(test.pattern, test.text, test.slash)
			if ok != test.wantOK {
				t.Fatalf("ParseArguments ok = %v, expected %v", ok, test.wantOK)
			}
			if args.Raw != test.wantRaw {
				t.Errorf("Raw = %q, expected %q", args.Raw, test.wantRaw)
			}
			if !reflect.DeepEqual(args.Parameter, test.wantParam) {
				t.Errorf("Parameter = %#v, expected %#v", args.Parameter, test.wantParam)
			}
		})
	}
}
