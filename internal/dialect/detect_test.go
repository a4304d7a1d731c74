package dialect_test

import (
	"testing"

	"zapc/internal/dialect"
)

func TestDetectByExtension(t *testing.T) {
	if got := dialect.Detect("schemas/person.zap", []byte("struct Foo { }")); got != dialect.Clean {
		t.Errorf("person.zap = %v, want clean", got)
	}
	if got := dialect.Detect("schemas/person.capnp", []byte("struct Foo\n  bar Text")); got != dialect.Legacy {
		t.Errorf("person.capnp = %v, want legacy", got)
	}
}

func TestDetectByContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    dialect.Kind
	}{
		{
			name:    "file id annotation",
			content: "@0x9eb32e19f86ee174;\n\nstruct Foo {\n  bar @0 :Text;\n}",
			want:    dialect.Legacy,
		},
		{
			name:    "punctuated ordinals",
			content: "struct Foo { bar @0; }",
			want:    dialect.Legacy,
		},
		{
			name:    "clean indented",
			content: "struct Foo\n  bar Text\n  baz UInt32\n",
			want:    dialect.Clean,
		},
		{
			name:    "ambiguous defaults to clean",
			content: "struct Foo",
			want:    dialect.Clean,
		},
		{
			name:    "empty defaults to clean",
			content: "",
			want:    dialect.Clean,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dialect.Detect("schema", []byte(tt.content)); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}
