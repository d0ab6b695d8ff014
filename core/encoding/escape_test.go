package encoding

import "testing"

func TestEscapeXMLText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hello World", "Hello World"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry"},
		{"angle brackets", "<p>", "&lt;p&gt;"},
		{"quotes kept", `say "hi"`, `say "hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeXMLText(tt.input); got != tt.want {
				t.Errorf("EscapeXMLText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeXMLAttr(t *testing.T) {
	if got, want := EscapeXMLAttr(`a="<b>"`), "a=&quot;&lt;b&gt;&quot;"; got != want {
		t.Errorf("EscapeXMLAttr() = %q, want %q", got, want)
	}
}

func TestEscapeNTriplesString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Alice", "Alice"},
		{"quote and backslash", `a "b" \c`, `a \"b\" \\c`},
		{"line breaks", "Of man\nOf that\r", `Of man\nOf that\r`},
		{"tab", "a\tb", `a\tb`},
		{"other control", "a\x01b", `a\u0001b`},
		{"unicode kept", "città", "città"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeNTriplesString(tt.input); got != tt.want {
				t.Errorf("EscapeNTriplesString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeNTriplesIRI(t *testing.T) {
	if got, want := EscapeNTriplesIRI("http://ex.org/a b>"), `http://ex.org/a\u0020b\u003E`; got != want {
		t.Errorf("EscapeNTriplesIRI() = %q, want %q", got, want)
	}
}

func TestUnescapeNTriples(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no escapes", "plain", "plain", false},
		{"echar", `a\tb\nc\"d\'e\\f`, "a\tb\nc\"d'e\\f", false},
		{"short uchar", `caf\u00e9`, "café", false},
		{"long uchar", `\U0001F600!`, "\U0001F600!", false},
		{"dangling", `abc\`, "", true},
		{"truncated uchar", `\u12`, "", true},
		{"bad hex", `\uZZZZ`, "", true},
		{"unknown escape", `\q`, "", true},
		{"surrogate", `\uD800`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnescapeNTriples(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnescapeNTriples(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("UnescapeNTriples(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNTriplesRoundTrip(t *testing.T) {
	for _, s := range []string{"", "Brough death into the World", "x\"\\\n\t\x7f", "日本語"} {
		got, err := UnescapeNTriples(EscapeNTriplesString(s))
		if err != nil {
			t.Fatalf("round trip of %q: %v", s, err)
		}
		if got != s {
			t.Errorf("round trip = %q, want %q", got, s)
		}
	}
}
