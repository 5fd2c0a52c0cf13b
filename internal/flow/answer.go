package flow

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option is one selectable answer.
type Option struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
}

// normalize lowercases s, strips accents and collapses separators so that
// "Baño_Social" and "bano social" compare equal.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	out = strings.NewReplacer("_", " ", "-", " ").Replace(out)
	return strings.Join(strings.Fields(out), " ")
}

// match resolves an answer given as option number, identifier or label.
func match(answer string, options []Option) (Option, bool) {
	answer = normalize(answer)
	if answer == "" {
		return Option{}, false
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return Option{}, false
	}
	for _, opt := range options {
		if normalize(opt.ID) == answer || normalize(opt.Label) == answer {
			return opt, true
		}
	}
	return Option{}, false
}

var noneAnswers = map[string]struct{}{
	"ninguno":  {},
	"ninguna":  {},
	"ningunos": {},
	"no":       {},
	"nada":     {},
	"0":        {},
}

// matchMany resolves a comma separated list of answers. Repeated choices
// collapse into one, keeping the first position.
func matchMany(answer string, options []Option) ([]Option, bool) {
	if _, none := noneAnswers[normalize(answer)]; none {
		return []Option{}, true
	}

	parts := strings.FieldsFunc(answer, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	if len(parts) == 0 {
		return nil, false
	}

	seen := make(map[string]struct{}, len(parts))
	out := make([]Option, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		opt, ok := match(part, options)
		if !ok {
			return nil, false
		}
		if _, dup := seen[opt.ID]; dup {
			continue
		}
		seen[opt.ID] = struct{}{}
		out = append(out, opt)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
