package sanitization

import "testing"

func TestHeaderValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello", "Hello"},
		{"Hi\r\nBcc: x@example.com", "Hi Bcc: x@example.com"},
		{"a\nb\rc", "a b c"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := HeaderValue(tt.input); got != tt.want {
			t.Errorf("HeaderValue(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`<b>"Tom" & 'Jerry'</b>`)
	want := "&lt;b&gt;&#34;Tom&#34; &amp; &#39;Jerry&#39;&lt;/b&gt;"
	if got != want {
		t.Errorf("EscapeHTML() = %q, want %q", got, want)
	}
}

func TestLineBreaksToHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"one\ntwo", "one<br>two"},
		{"one\r\ntwo\n", "one\r<br>two<br>"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := LineBreaksToHTML(tt.input); got != tt.want {
			t.Errorf("LineBreaksToHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
