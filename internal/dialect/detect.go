package dialect

import (
	"strings"
)

// Detect picks the dialect for a schema file. The extension wins outright;
// otherwise the content is sniffed and scored, with Clean as the default
// for ambiguous input.
func Detect(path string, content []byte) Kind {
	switch {
	case strings.HasSuffix(path, ".zap"):
		return Clean
	case strings.HasSuffix(path, ".capnp"):
		return Legacy
	}
	return Sniff(content).Kind
}

// Sniff classifies content without an extension hint.
func Sniff(content []byte) Classification {
	ev := NewEvidence()
	text := string(content)

	// File-ID annotations and punctuated ordinals only exist in the
	// legacy grammar.
	if strings.Contains(text, "@0x") {
		ev.Add(Hint{Dialect: Legacy, Score: 10, Reason: "file-ID annotation"})
	}
	for _, sig := range []string{"@0;", "@1;", "@2;"} {
		if strings.Contains(text, sig) {
			ev.Add(Hint{Dialect: Legacy, Score: 5, Reason: "punctuated ordinal"})
			break
		}
	}
	if strings.Contains(text, "{") || strings.Contains(text, "}") {
		ev.Add(Hint{Dialect: Legacy, Score: 2, Reason: "brace block"})
	}
	if strings.Contains(text, ";") {
		ev.Add(Hint{Dialect: Legacy, Score: 1, Reason: "semicolon"})
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if line != trimmed && !strings.ContainsAny(trimmed, "{};") {
			ev.Add(Hint{Dialect: Clean, Score: 1, Reason: "indented colon-free line"})
		}
	}

	return Classifier{}.Classify(ev)
}
