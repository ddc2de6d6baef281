package bundler

import "testing"

func TestRewriteScripts(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		filename string
		want     string
	}{
		{
			name:     "single script",
			html:     `<head><script type="module" src="./src/index.js"></script></head>`,
			filename: "playable.js",
			want:     `<head><script src="playable.js"></script></head>`,
		},
		{
			name:     "mraid preserved",
			html:     `<script src="mraid.js"></script><script src='game.js' defer></script>`,
			filename: "creative.js",
			want:     `<script src="mraid.js"></script><script src="creative.js"></script>`,
		},
		{
			name:     "no external scripts",
			html:     `<script>var url = 'x'; // IOS</script>`,
			filename: "playable.js",
			want:     `<script>var url = 'x'; // IOS</script>`,
		},
		{
			name:     "multiple rewritten",
			html:     "<script src=\"a.js\"></script>\n<script src=\"b.js\"></script>",
			filename: "playable.js",
			want:     "<script src=\"playable.js\"></script>\n<script src=\"playable.js\"></script>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteScripts(tt.html, tt.filename); got != tt.want {
				t.Errorf("RewriteScripts() = %q, want %q", got, tt.want)
			}
		})
	}
}
